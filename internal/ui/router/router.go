// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/authz"
	"github.com/leapstack-labs/appshell/internal/config"
	"github.com/leapstack-labs/appshell/internal/metrics"
	"github.com/leapstack-labs/appshell/internal/routes"
	accountFeature "github.com/leapstack-labs/appshell/internal/ui/features/account"
	apiFeature "github.com/leapstack-labs/appshell/internal/ui/features/api"
	chartsFeature "github.com/leapstack-labs/appshell/internal/ui/features/charts"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
	homeFeature "github.com/leapstack-labs/appshell/internal/ui/features/home"
	layoutFeature "github.com/leapstack-labs/appshell/internal/ui/features/layout"
	"github.com/leapstack-labs/appshell/internal/ui/notifier"
	"github.com/leapstack-labs/appshell/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Deps are the services the routes are built on.
type Deps struct {
	Config   *config.AppConfig
	Auth     *auth.Service
	Roles    authz.RoleChecker
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	IsDev    bool

	// Now overrides the clock of time-dependent views.
	Now func() time.Time
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, d Deps) error {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}

	// Hot reload endpoint for dev mode
	if d.IsDev {
		setupReload(router, d.Notifier)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())
	router.Handle("/metrics", metrics.Handler())

	shell := &common.Shell{Sessions: d.Auth, APIPath: d.Config.APIPath, IsDev: d.IsDev}

	home := homeFeature.NewHandlers(shell)
	charts := chartsFeature.NewHandlers(shell, d.Now)
	layout := layoutFeature.NewHandlers(shell, d.Logger, d.Now)
	account := accountFeature.NewHandlers(d.Auth, shell, d.Logger)
	api := apiFeature.NewHandlers(d.Auth, shell, d.Auth.Settings(), d.Now)

	table := routes.NewService(routes.Views{
		Home:                http.HandlerFunc(home.HomePage),
		Charts:              http.HandlerFunc(charts.ChartsPage),
		Layout:              http.HandlerFunc(layout.LayoutPage),
		LoginRedirect:       http.HandlerFunc(account.LoginRedirect),
		SilentLoginRedirect: http.HandlerFunc(account.SilentLoginRedirect),
		LoggedOut:           http.HandlerFunc(account.LoggedOut),
		SignOut:             http.HandlerFunc(account.SignOut),
	})
	security := routes.NewSecurity(d.Auth, d.Roles, d.Auth, d.Logger)
	shell.Menu = table.MenuItems()
	shell.Security = security

	routes.Mount(router, table, security)

	// Feature routes outside the route table
	if err := accountFeature.SetupRoutes(router, account); err != nil {
		return err
	}

	if err := layoutFeature.SetupRoutes(router, layout); err != nil {
		return err
	}

	if err := apiFeature.SetupRoutes(router, d.Config.APIPath, api); err != nil {
		return err
	}

	return nil
}

// setupReload serves the dev reload stream. Every browser reloads once on
// its first connection after a restart, then on every notifier event.
func setupReload(router chi.Router, n *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		events := n.Subscribe()
		defer n.Unsubscribe(events)

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-events:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		n.Broadcast(notifier.Event{Kind: notifier.ReloadRequested})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
