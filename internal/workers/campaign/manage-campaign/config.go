// internal/workers/campaign/manage-campaign/config.go
package managecampaign

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
