package config

// Default configuration values.
const (
	DefaultAPIPath  = "/api"
	DefaultHostname = "localhost"
	DefaultClientID = "appshell"
)

// DefaultScopes returns the scopes requested when none are configured.
func DefaultScopes() []string {
	return []string{"openid", "profile"}
}

// ApplyDefaults applies default values to an AppConfig.
func ApplyDefaults(c *AppConfig) {
	if c == nil {
		return
	}
	if c.APIPath == "" {
		c.APIPath = DefaultAPIPath
	}
	if c.IdentityServer.ClientID == "" {
		c.IdentityServer.ClientID = DefaultClientID
	}
	if len(c.IdentityServer.Scopes) == 0 {
		c.IdentityServer.Scopes = DefaultScopes()
	}
}
