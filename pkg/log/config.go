package log

import "github.com/rs/zerolog"

// Config controls logger formatting and level. Fields are populated
// from the environment through the surrounding application's config.
type Config struct {
	HumanFriendly   bool   `envconfig:"optional"` // non-JSON console output
	NoColoredOutput bool   `envconfig:"optional"` // disable ANSI colors in console output
	Level           string `envconfig:"optional"` // log level name, e.g. "debug", "info", "warn"
}

// SetDefault fills in defaults; an empty Level becomes "info".
func (c *Config) SetDefault() {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
}
