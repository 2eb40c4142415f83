package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedcfg "github.com/leapstack-labs/appshell/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 0, "")
	fs.String("hostname", "", "")
	fs.String("identity-url", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.APIPath)
	assert.Equal(t, "appshell", cfg.IdentityServer.ClientID)
	assert.Equal(t, "https://localhost/identity", cfg.IdentityServer.URL)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultSessionMaxAge, cfg.Server.SessionMaxAge)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Server.HTTPTimeout)
	assert.Equal(t, "http://localhost:8765", cfg.Server.PublicOrigin())
	assert.True(t, cfg.UsesDevSecret())
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_JSONFileResolvesDomain(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeFile(t, dir, "appsettings.json", `{
  "apiPath": "/backend",
  "identityServer": {
    "client_id": "spa-client",
    "url": "https://{domain}/identity"
  },
  "server": {
    "hostname": "example.com",
    "session_max_age": "30m"
  }
}`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/backend", cfg.APIPath)
	assert.Equal(t, "spa-client", cfg.IdentityServer.ClientID)
	assert.Equal(t, "https://example.com/identity", cfg.IdentityServer.URL)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionMaxAge)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_YAMLFileFoundInWorkingDir(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeFile(t, dir, sharedcfg.ConfigFileNameYAML, `
apiPath: /v1
identityServer:
  client_id: yaml-client
  url: https://idp.example.org
  scopes: [openid, profile, email]
server:
  port: 9000
`)
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/v1", cfg.APIPath)
	assert.Equal(t, "yaml-client", cfg.IdentityServer.ClientID)
	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.IdentityServer.Scopes)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, sharedcfg.ConfigFileNameYAML), GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeFile(t, dir, "appsettings.json", `{"identityServer": {"client_id": "from-file", "url": "https://idp.example.org"}}`)

	t.Setenv("APPSHELL_IDENTITYSERVER__CLIENT_ID", "from-env")
	t.Setenv("APPSHELL_SERVER__PORT", "9100")
	t.Setenv("APPSHELL_APIPATH", "/env-api")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.IdentityServer.ClientID)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/env-api", cfg.APIPath)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("APPSHELL_SERVER__PORT", "9100")

	fs := newFlagSet()
	require.NoError(t, fs.Set("port", "9200"))
	require.NoError(t, fs.Set("hostname", "app.example.com"))
	require.NoError(t, fs.Set("identity-url", "https://{domain}/auth"))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "app.example.com", cfg.Server.Hostname)
	assert.Equal(t, "https://app.example.com/auth", cfg.IdentityServer.URL)
	assert.Equal(t, "http://app.example.com:9200", cfg.Server.PublicOrigin())
}

func TestLoadConfig_UnsetFlagsIgnored(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", newFlagSet())
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "relative identity url",
			content:   `{"identityServer": {"url": "/identity"}}`,
			errSubstr: "absolute URL",
		},
		{
			name:      "short session secret",
			content:   `{"server": {"session_secret": "short"}}`,
			errSubstr: "session_secret",
		},
		{
			name:      "bad port",
			content:   `{"server": {"port": 70000}}`,
			errSubstr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeFile(t, t.TempDir(), "appsettings.json", tt.content)

			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, sharedcfg.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "identityServer.url", envKey("APPSHELL_IDENTITYSERVER__URL"))
	assert.Equal(t, "server.session_secret", envKey("APPSHELL_SERVER__SESSION_SECRET"))
	assert.Equal(t, "verbose", envKey("APPSHELL_VERBOSE"))
}

func TestGetLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	// Fallback never returns nil.
	assert.NotNil(t, GetLogger(context.Background()))
}
