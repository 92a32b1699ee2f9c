// internal/workers/agent/save-agent-override/config.go
package saveagentoverride

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
