package commands

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/leapstack-labs/appshell/internal/cli/config"
	"github.com/leapstack-labs/appshell/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AppShell web server",
		Long: `Start the web server hosting the authenticated application shell.

The server provides:
- Sign-in through the configured OpenID Connect provider
- Guarded pages with a role-filtered navigation menu
- Responsive layout driven by browser signals
- A JSON API under the configured apiPath`,
		Example: `  # Start on the default port
  appshell serve

  # Start on a custom port
  appshell serve --port 3000

  # Start without auto-opening the browser
  appshell serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Watch static assets and live-reload the browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	serverCfg, autoOpen := buildServerConfig(cmdCtx.Cfg, opts, cmd.Flags().Changed("watch"), cmdCtx.Logger)
	if cmdCtx.Cfg.UsesDevSecret() {
		r.Warn("using the built-in development session secret; set APPSHELL_SERVER__SESSION_SECRET outside development")
	}

	server := ui.NewServer(serverCfg)

	if autoOpen {
		go openBrowser(serverCfg.Origin)
	}

	r.Printf("Starting AppShell on %s\n", serverCfg.Origin)
	r.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// buildServerConfig applies the command flags on top of the loaded
// configuration. It also reports whether the browser should be opened.
func buildServerConfig(cfg *config.Config, opts *ServeOptions, watchChanged bool, logger *slog.Logger) (ui.Config, bool) {
	server := cfg.Server

	// CLI flags override config file
	if opts.Port != 0 {
		server.Port = opts.Port
	}
	if watchChanged {
		server.Watch = opts.Watch
	}
	autoOpen := server.AutoOpen && !opts.NoBrowser

	return ui.Config{
		App:           cfg.AppConfig,
		Origin:        server.PublicOrigin(),
		Port:          server.Port,
		Watch:         server.Watch,
		SessionSecret: server.SessionSecret,
		SessionMaxAge: server.SessionMaxAge,
		SecureCookies: server.SecureCookies,
		HTTPTimeout:   server.HTTPTimeout,
		Logger:        logger,
	}, autoOpen
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(context.Background(), "open", url)
	case "linux":
		cmd = exec.CommandContext(context.Background(), "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(context.Background(), "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
