package config

import (
	"fmt"

	sharedcfg "github.com/leapstack-labs/appshell/internal/config"
)

// minSessionSecretLen is the shortest secret accepted for signing cookies.
const minSessionSecretLen = 32

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.AppConfig.Validate(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535, got %d", sharedcfg.ErrInvalidConfig, c.Server.Port)
	}
	if len(c.Server.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("%w: server.session_secret must be at least %d bytes", sharedcfg.ErrInvalidConfig, minSessionSecretLen)
	}
	if c.Server.SessionMaxAge <= 0 {
		return fmt.Errorf("%w: server.session_max_age must be positive", sharedcfg.ErrInvalidConfig)
	}
	return nil
}

// UsesDevSecret reports whether the built-in development session secret is in use.
func (c *Config) UsesDevSecret() bool {
	return c.Server.SessionSecret == DevSessionSecret
}
