package commands

import (
	"fmt"

	"github.com/leapstack-labs/appshell/internal/cli/config"
	"github.com/leapstack-labs/appshell/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ClientInfo is the OIDC client configuration derived from the settings.
type ClientInfo struct {
	Authority             string   `json:"authority" yaml:"authority"`
	ClientID              string   `json:"client_id" yaml:"client_id"`
	RedirectURI           string   `json:"redirect_uri" yaml:"redirect_uri"`
	SilentRedirectURI     string   `json:"silent_redirect_uri" yaml:"silent_redirect_uri"`
	PostLogoutRedirectURI string   `json:"post_logout_redirect_uri" yaml:"post_logout_redirect_uri"`
	Scopes                []string `json:"scopes" yaml:"scopes"`
}

// ConfigOutput is the resolved configuration shown by the config command.
// Secrets are never included.
type ConfigOutput struct {
	ConfigFile string         `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Settings   *config.Config `json:"settings" yaml:"settings"`
	Client     ClientInfo     `json:"client" yaml:"client"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration after defaults, the settings file, APPSHELL_*
environment variables and flags have been applied, together with the OIDC
client settings derived from it. Secrets are omitted.`,
		Example: `  # Show configuration as YAML
  appshell config

  # Show configuration as JSON
  appshell config --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runConfig(cmdCtx.Renderer, cmdCtx.Cfg, config.GetConfigFileUsed(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newConfigOutput(cfg *config.Config, configFile string) ConfigOutput {
	settings := cfg.ClientSettings(cfg.Server.PublicOrigin())
	return ConfigOutput{
		ConfigFile: configFile,
		Settings:   cfg,
		Client: ClientInfo{
			Authority:             settings.Authority,
			ClientID:              settings.ClientID,
			RedirectURI:           settings.RedirectURI,
			SilentRedirectURI:     settings.SilentRedirectURI,
			PostLogoutRedirectURI: settings.PostLogoutRedirectURI,
			Scopes:                settings.Scopes,
		},
	}
}

func runConfig(r *output.Renderer, cfg *config.Config, configFile, format string) error {
	out := newConfigOutput(cfg, configFile)

	// --output json wins over --format
	if r.EffectiveMode() == output.ModeJSON {
		format = "json"
	}

	switch format {
	case "json":
		return r.JSON(out)
	case "yaml", "":
		enc := yaml.NewEncoder(r.Writer())
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
}
