package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/appshell/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/appshell/internal/config"
)

// generateConfigDocs generates the settings reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
	Category    string // "app", "server", "cli"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/config/types.go AppConfig and
// internal/cli/config/types.go ServerConfig.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Key: "apiPath", Type: "string", Default: sharedcfg.DefaultAPIPath, Description: "Base path of the JSON API", Category: "app"},
		{Key: "identityServer.url", Type: "string", Default: config.DefaultIdentityURL, Description: "OpenID Connect provider URL", Category: "app"},
		{Key: "identityServer.client_id", Type: "string", Default: sharedcfg.DefaultClientID, Description: "OpenID Connect client id", Category: "app"},
		{Key: "identityServer.client_secret", Type: "string", Description: "Client secret for confidential clients", Category: "app"},
		{Key: "identityServer.scopes", Type: "[]string", Default: strings.Join(sharedcfg.DefaultScopes(), ","), Description: "Requested scopes", Category: "app"},

		{Key: "server.port", Type: "int", Default: strconv.Itoa(config.DefaultPort), Description: "Port to serve on", Category: "server"},
		{Key: "server.hostname", Type: "string", Default: sharedcfg.DefaultHostname, Description: "Hostname substituted for " + sharedcfg.DomainPlaceholder, Category: "server"},
		{Key: "server.origin", Type: "string", Description: "Public origin used in redirect URIs", Category: "server"},
		{Key: "server.auto_open", Type: "bool", Default: "false", Description: "Open the browser on start", Category: "server"},
		{Key: "server.watch", Type: "bool", Default: "false", Description: "Live-reload on asset changes (dev builds)", Category: "server"},
		{Key: "server.session_secret", Type: "string", Description: "Cookie signing secret, at least 32 bytes", Category: "server"},
		{Key: "server.session_max_age", Type: "duration", Default: config.DefaultSessionMaxAge.String(), Description: "Session cookie lifetime", Category: "server"},
		{Key: "server.secure_cookies", Type: "bool", Default: "false", Description: "Mark cookies Secure (HTTPS only)", Category: "server"},
		{Key: "server.http_timeout", Type: "duration", Default: config.DefaultHTTPTimeout.String(), Description: "Timeout for identity provider requests", Category: "server"},

		{Key: "verbose", Type: "bool", Default: "false", Description: "Debug logging", Category: "cli"},
		{Key: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format (auto, text, markdown, json)", Category: "cli"},
	}
}

// envVar returns the environment variable that overrides key.
func envVar(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "AppShell configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("AppShell reads `appsettings.json` or `appshell.yaml` from the working directory, or the file passed with `--config`. " +
		"Values are layered: defaults, then the file, then " + InlineCode(config.EnvPrefix+"*") + " environment variables, then flags.")
	w.Paragraph("Every " + InlineCode(sharedcfg.DomainPlaceholder) + " in a value is replaced with `server.hostname` once the configuration is loaded.")

	sections := []struct {
		category string
		title    string
	}{
		{"app", "Application Settings"},
		{"server", "Server"},
		{"cli", "CLI"},
	}

	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	for _, sec := range sections {
		var rows [][]string
		for _, f := range getConfigSchema() {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Key), f.Type, defVal, InlineCode(envVar(f.Key)), f.Description})
		}
		w.Header(2, sec.title)
		w.Table(headers, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("json", `{
  "apiPath": "/api",
  "identityServer": {
    "client_id": "appshell",
    "url": "https://{domain}/identity"
  }
}`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
