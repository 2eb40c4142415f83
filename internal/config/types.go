// Package config provides the shared application configuration for appshell.
// This package is decoupled from CLI concerns: it holds the settings the
// browser-facing application needs (API path, identity provider) and derives
// the OIDC client configuration from them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DomainPlaceholder is replaced with the current hostname when the
// configuration is resolved at startup.
const DomainPlaceholder = "{domain}"

// Redirect paths registered with the identity provider.
const (
	LoginRedirectPath       = "/OidcLoginRedirect"
	SilentLoginRedirectPath = "/OidcSilentLoginRedirect"
	LoggedOutPath           = "/loggedout"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// IdentityServerConfig holds the identity provider settings.
type IdentityServerConfig struct {
	ClientID     string   `koanf:"client_id" json:"client_id" yaml:"client_id"`
	ClientSecret string   `koanf:"client_secret" json:"-" yaml:"-"`
	URL          string   `koanf:"url" json:"url" yaml:"url"`
	Scopes       []string `koanf:"scopes" json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// AppConfig holds the runtime settings of the application.
// It is resolved once at startup and treated as immutable afterwards.
type AppConfig struct {
	APIPath        string               `koanf:"apiPath" json:"apiPath" yaml:"apiPath"`
	IdentityServer IdentityServerConfig `koanf:"identityServer" json:"identityServer" yaml:"identityServer"`
}

// ClientSettings is the OIDC client configuration derived from AppConfig
// for a given public origin.
type ClientSettings struct {
	Authority             string
	ClientID              string
	ClientSecret          string
	RedirectURI           string
	SilentRedirectURI     string
	PostLogoutRedirectURI string
	Scopes                []string
}

// ResolveTemplate substitutes every {domain} placeholder in tmpl with hostname.
func ResolveTemplate(tmpl, hostname string) string {
	return strings.ReplaceAll(tmpl, DomainPlaceholder, hostname)
}

// ResolveDomain substitutes the hostname into all templated fields.
func (c *AppConfig) ResolveDomain(hostname string) {
	c.APIPath = ResolveTemplate(c.APIPath, hostname)
	c.IdentityServer.URL = ResolveTemplate(c.IdentityServer.URL, hostname)
}

// ClientSettings derives the OIDC client configuration. origin is the
// scheme and host the browser uses to reach the application, e.g.
// "https://example.com".
func (c *AppConfig) ClientSettings(origin string) ClientSettings {
	origin = strings.TrimRight(origin, "/")

	scopes := c.IdentityServer.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}

	return ClientSettings{
		Authority:             strings.TrimRight(c.IdentityServer.URL, "/"),
		ClientID:              c.IdentityServer.ClientID,
		ClientSecret:          c.IdentityServer.ClientSecret,
		RedirectURI:           origin + LoginRedirectPath,
		SilentRedirectURI:     origin + SilentLoginRedirectPath,
		PostLogoutRedirectURI: origin + LoggedOutPath,
		Scopes:                scopes,
	}
}

// Validate checks that the configuration can drive an OIDC client.
func (c *AppConfig) Validate() error {
	if c.IdentityServer.ClientID == "" {
		return fmt.Errorf("%w: identityServer.client_id is required", ErrInvalidConfig)
	}
	if c.IdentityServer.URL == "" {
		return fmt.Errorf("%w: identityServer.url is required", ErrInvalidConfig)
	}
	if strings.Contains(c.IdentityServer.URL, DomainPlaceholder) {
		return fmt.Errorf("%w: identityServer.url has an unresolved %s placeholder", ErrInvalidConfig, DomainPlaceholder)
	}
	u, err := url.Parse(c.IdentityServer.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: identityServer.url must be an absolute URL, got %q", ErrInvalidConfig, c.IdentityServer.URL)
	}
	if !strings.HasPrefix(c.APIPath, "/") {
		return fmt.Errorf("%w: apiPath must start with '/', got %q", ErrInvalidConfig, c.APIPath)
	}
	return nil
}
