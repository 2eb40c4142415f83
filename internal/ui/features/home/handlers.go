// Package home provides the dashboard feature for the UI.
package home

import (
	"net/http"

	"github.com/leapstack-labs/appshell/internal/ui/components"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	shell *common.Shell
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(shell *common.Shell) *Handlers {
	return &Handlers{shell: shell}
}

// HomePage renders the dashboard.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, http.StatusOK, components.Home(h.shell.Data(r, "Dashboard")))
}
