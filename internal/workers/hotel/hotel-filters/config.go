package hotelfilters

import (
	"fmt"
	"time"

	"hotel-search/internal/common/config"
	"hotel-search/internal/models"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func createConfigFromAppConfig(appCfg *config.Config) *Config {
	wcfg := config.WorkerConfig{Timeout: 30000}
	if appCfg != nil {
		wcfg = config.GetWorkerConfig(appCfg, TaskType)
	}
	return &Config{
		Timeout:    config.GetDuration(wcfg.Timeout),
		MaxRetries: wcfg.MaxRetries,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// GetInputSchema accepts the search parameters. Paging and location are
// ignored for facets but still type checked.
func GetInputSchema() map[string]interface{} {
	optionalString := map[string]interface{}{"type": []interface{}{"string", "null"}}
	optionalInt := map[string]interface{}{"type": []interface{}{"integer", "null"}}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"key":      optionalString,
			"city":     optionalString,
			"brand":    optionalString,
			"starName": optionalString,
			"location": optionalString,
			"page": map[string]interface{}{
				"type":    []interface{}{"integer", "null"},
				"maximum": models.MaxPage,
			},
			"size":     optionalInt,
			"minPrice": optionalInt,
			"maxPrice": optionalInt,
		},
	}
}
