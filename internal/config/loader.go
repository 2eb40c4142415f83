package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the JSON settings file.
const ConfigFileName = "appsettings.json"

// ConfigFileNameYAML is the alternate YAML settings file.
const ConfigFileNameYAML = "appshell.yaml"

// ParserFor returns the koanf parser matching the file extension.
func ParserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// FindConfigFile finds the settings file in the given directory.
// Returns empty string if not found.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameYAML, "appshell.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
