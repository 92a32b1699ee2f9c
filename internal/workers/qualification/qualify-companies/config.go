// internal/workers/qualification/qualify-companies/config.go
package qualifycompanies

import "time"

type Config struct {
	Timeout time.Duration
	// Seed fixes the random source for every job. Zero seeds from the clock.
	Seed int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
