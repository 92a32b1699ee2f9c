// internal/workers/outreach/generate-contacts/config.go
package generatecontacts

import "time"

type Config struct {
	Timeout time.Duration
	// ContactsPerPersona applies when a job does not set count.
	ContactsPerPersona int
	Seed               int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            30 * time.Second,
		ContactsPerPersona: 1,
	}
}
