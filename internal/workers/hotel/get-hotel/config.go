package gethotel

import (
	"fmt"
	"time"

	"hotel-search/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func createConfigFromAppConfig(appCfg *config.Config) *Config {
	wcfg := config.WorkerConfig{Timeout: 10000}
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

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"hotelId": map[string]interface{}{
				"type":    "integer",
				"minimum": 1,
			},
		},
		"required": []interface{}{"hotelId"},
	}
}
