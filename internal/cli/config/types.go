// Package config provides configuration management for the appshell CLI.
//
// This package extends the shared application configuration from
// internal/config with server and CLI specific fields.
package config

import (
	"fmt"
	"time"

	sharedcfg "github.com/leapstack-labs/appshell/internal/config"
)

// AppConfig is an alias for the shared application configuration.
type AppConfig = sharedcfg.AppConfig

// IdentityServerConfig is an alias for the shared identity provider settings.
type IdentityServerConfig = sharedcfg.IdentityServerConfig

// ServerConfig holds configuration for the UI server.
type ServerConfig struct {
	Port          int           `koanf:"port" json:"port" yaml:"port"`
	Hostname      string        `koanf:"hostname" json:"hostname" yaml:"hostname"`
	Origin        string        `koanf:"origin" json:"origin,omitempty" yaml:"origin,omitempty"`
	AutoOpen      bool          `koanf:"auto_open" json:"auto_open" yaml:"auto_open"`
	Watch         bool          `koanf:"watch" json:"watch" yaml:"watch"`
	SessionSecret string        `koanf:"session_secret" json:"-" yaml:"-"`
	SessionMaxAge time.Duration `koanf:"session_max_age" json:"session_max_age" yaml:"session_max_age"`
	SecureCookies bool          `koanf:"secure_cookies" json:"secure_cookies" yaml:"secure_cookies"`
	HTTPTimeout   time.Duration `koanf:"http_timeout" json:"http_timeout" yaml:"http_timeout"`
}

// PublicOrigin returns the origin browsers use to reach the server.
// Falls back to http://<hostname>:<port> when no origin is configured.
func (s ServerConfig) PublicOrigin() string {
	if s.Origin != "" {
		return s.Origin
	}
	return fmt.Sprintf("http://%s:%d", s.Hostname, s.Port)
}

// Config holds all CLI configuration options.
type Config struct {
	AppConfig    `koanf:",squash" yaml:",inline"`
	Server       ServerConfig `koanf:"server" json:"server" yaml:"server"`
	Verbose      bool         `koanf:"verbose" json:"verbose" yaml:"verbose"`
	OutputFormat string       `koanf:"output" json:"output" yaml:"output"`
}

// Default configuration values.
const (
	DefaultPort          = 8765
	DefaultSessionMaxAge = 8 * time.Hour
	DefaultHTTPTimeout   = 10 * time.Second
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultIdentityURL   = "https://{domain}/identity"
	DevSessionSecret     = "appshell-dev-secret-change-in-production" //nolint:gosec
)
