package hotel

import "errors"

var (
	// ErrValidation marks malformed input rejected before any index call.
	ErrValidation = errors.New("validation error")

	// ErrServiceUnavailable wraps every transport or protocol failure of the
	// index service. No partial result accompanies it.
	ErrServiceUnavailable = errors.New("index service unavailable")

	ErrHotelNotFound    = errors.New("hotel not found")
	ErrStoreUnavailable = errors.New("hotel store unavailable")
)
