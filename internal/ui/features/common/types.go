// Package common provides shared types and utilities for UI features.
package common

import (
	"net/http"

	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/layout"
	"github.com/leapstack-labs/appshell/internal/routes"
	"github.com/leapstack-labs/appshell/internal/ui/components"
)

// Shell builds the data every page shares. Menu and Security are set once
// the route table exists, before the server starts.
type Shell struct {
	Sessions auth.SessionProvider
	Menu     []routes.MenuItem
	Security *routes.Security
	APIPath  string
	IsDev    bool
}

// Data returns the shell data for a page rendered for r.
func (s *Shell) Data(r *http.Request, title string) components.ShellData {
	data := components.ShellData{
		Title:       title,
		CurrentPath: r.URL.Path,
		APIPath:     s.APIPath,
		IsDev:       s.IsDev,
		Layout:      layout.Initial().Signals(),
	}

	if user, ok := s.Sessions.CurrentUser(r); ok {
		data.Subject = user.Subject
		data.ExpiresAt = user.ExpiresAt
	}

	menu := s.Menu
	if s.Security != nil {
		menu = s.Security.VisibleMenu(r, menu)
	}
	for _, item := range menu {
		data.Nav = append(data.Nav, components.NavItem{
			Path:   item.Path,
			Label:  item.Label,
			Icon:   item.Icon,
			Active: item.Path == r.URL.Path,
		})
	}

	return data
}
