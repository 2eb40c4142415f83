package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/appshell/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix is the prefix of environment variables read by the loader.
const EnvPrefix = "APPSHELL_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// canonicalKeys maps lower-cased environment keys onto the camelCase keys
// used by the settings file.
var canonicalKeys = map[string]string{
	"apipath":                      "apiPath",
	"identityserver.url":           "identityServer.url",
	"identityserver.client_id":     "identityServer.client_id",
	"identityserver.client_secret": "identityServer.client_secret",
	"identityserver.scopes":        "identityServer.scopes",
}

// envKey transforms APPSHELL_IDENTITYSERVER__URL into identityServer.url.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if canonical, ok := canonicalKeys[key]; ok {
		return canonical
	}
	return key
}

// findConfigFile finds the config file to use.
// Priority: explicit path > appsettings.json > appshell.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cwd, err := os.Getwd(); err == nil {
		return sharedcfg.FindConfigFile(cwd)
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags,
// then resolves the {domain} placeholder against the configured hostname.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"apiPath":                  sharedcfg.DefaultAPIPath,
		"identityServer.client_id": sharedcfg.DefaultClientID,
		"identityServer.url":       DefaultIdentityURL,
		"identityServer.scopes":    sharedcfg.DefaultScopes(),
		"server.port":              DefaultPort,
		"server.hostname":          sharedcfg.DefaultHostname,
		"server.auto_open":         false,
		"server.watch":             false,
		"server.session_secret":    DevSessionSecret,
		"server.session_max_age":   DefaultSessionMaxAge.String(),
		"server.secure_cookies":    false,
		"server.http_timeout":      DefaultHTTPTimeout.String(),
		"verbose":                  false,
		"output":                   DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), sharedcfg.ParserFor(configFileUsed)); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (APPSHELL_ prefix, __ separates nesting)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")

			// Server flags live under the server section.
			switch key {
			case "port", "hostname", "origin", "watch":
				return "server." + key, posflag.FlagVal(flags, f)
			case "api_path":
				return "apiPath", posflag.FlagVal(flags, f)
			case "identity_url":
				return "identityServer.url", posflag.FlagVal(flags, f)
			case "client_id":
				return "identityServer.client_id", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Metadata:         nil,
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve hostname placeholders; the config is immutable afterwards
	sharedcfg.ApplyDefaults(&cfg.AppConfig)
	cfg.AppConfig.ResolveDomain(cfg.Server.Hostname)
	cfg.Server.Origin = sharedcfg.ResolveTemplate(cfg.Server.Origin, cfg.Server.Hostname)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
