package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/appshell/internal/cli/output"
	"github.com/leapstack-labs/appshell/internal/routes"
	"github.com/spf13/cobra"
)

// RouteInfo describes a route in command output.
type RouteInfo struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Menu      bool   `json:"menu"`
	Anonymous bool   `json:"anonymous"`
}

// RoutesOutput is the JSON shape of the routes command.
type RoutesOutput struct {
	APIPath string      `json:"apiPath"`
	Routes  []RouteInfo `json:"routes"`
}

// NewRoutesCommand creates the routes command.
func NewRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the application routes",
		Long: `List the pages served by the application shell, whether they appear in
the navigation menu and whether they can be reached without signing in.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List routes
  appshell routes

  # List routes as JSON
  appshell routes --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runRoutes(cmdCtx.Renderer, cmdCtx.Cfg.APIPath)
		},
	}
}

// collectRoutes lists menu routes first, in display order.
func collectRoutes() []RouteInfo {
	svc := routes.NewService(routes.Views{})

	labels := make(map[string]string)
	for _, item := range svc.MenuItems() {
		labels[item.Path] = item.Label
	}

	var infos []RouteInfo
	for _, rt := range svc.MenuRoutes() {
		infos = append(infos, RouteInfo{
			Path:      rt.Path,
			Name:      rt.Name,
			Label:     labels[rt.Path],
			Icon:      rt.Icon,
			Menu:      true,
			Anonymous: rt.AllowAnonymous,
		})
	}
	for _, rt := range svc.PureRoutes() {
		infos = append(infos, RouteInfo{
			Path:      rt.Path,
			Name:      rt.Name,
			Icon:      rt.Icon,
			Anonymous: rt.AllowAnonymous,
		})
	}
	return infos
}

func runRoutes(r *output.Renderer, apiPath string) error {
	infos := collectRoutes()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(RoutesOutput{APIPath: apiPath, Routes: infos})
	}

	r.Header(1, fmt.Sprintf("Routes (%d total)", len(infos)))

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Path,
			info.Name,
			info.Label,
			strconv.FormatBool(info.Menu),
			strconv.FormatBool(info.Anonymous),
		})
	}
	r.Table([]string{"Path", "Name", "Label", "Menu", "Anonymous"}, rows)
	r.Println("")
	r.KeyValue("API", apiPath)

	return nil
}
