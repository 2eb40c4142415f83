package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/authz"
	"github.com/leapstack-labs/appshell/internal/metrics"
)

// SignInStarter starts the interactive sign-in flow.
type SignInStarter interface {
	SignIn(w http.ResponseWriter, r *http.Request, returnPath string) error
}

// Security decides route and menu visibility from the session of the
// requesting browser and the role checker.
type Security struct {
	sessions auth.SessionProvider
	roles    authz.RoleChecker
	signIn   SignInStarter
	logger   *slog.Logger
}

// NewSecurity creates a new Security.
func NewSecurity(sessions auth.SessionProvider, roles authz.RoleChecker, signIn SignInStarter, logger *slog.Logger) *Security {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Security{
		sessions: sessions,
		roles:    roles,
		signIn:   signIn,
		logger:   logger,
	}
}

// RouteAllowed reports whether route may be entered: anonymous routes always,
// others only with a session and a granted role named after the route.
func (s *Security) RouteAllowed(r *http.Request, route Route) bool {
	if route.AllowAnonymous {
		return true
	}
	if _, ok := s.sessions.CurrentUser(r); !ok {
		return false
	}
	return s.roles.HasRole(r.Context(), route.Name)
}

// MenuItemAllowed reports whether item is shown in navigation. It applies the
// same rule as RouteAllowed; hidden routes stay reachable by URL.
func (s *Security) MenuItemAllowed(r *http.Request, item MenuItem) bool {
	return s.RouteAllowed(r, item.Route)
}

// VisibleMenu filters items down to those allowed for the request.
func (s *Security) VisibleMenu(r *http.Request, items []MenuItem) []MenuItem {
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if s.MenuItemAllowed(r, item) {
			visible = append(visible, item)
		}
	}
	return visible
}

// Guard gates route. Without a session the sign-in flow starts and returns
// to the requested URL afterwards; a signed-in user without the role is sent
// home.
func (s *Security) Guard(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.RouteAllowed(r, route) {
				metrics.RecordGuardDecision(route.Name, "allowed")
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := s.sessions.CurrentUser(r); !ok {
				metrics.RecordGuardDecision(route.Name, "sign_in")
				if err := s.signIn.SignIn(w, r, r.URL.RequestURI()); err != nil {
					s.logger.Error("failed to start sign-in", "route", route.Path, "error", err)
					http.Error(w, "identity provider unavailable", http.StatusBadGateway)
				}
				return
			}

			metrics.RecordGuardDecision(route.Name, "denied")
			s.logger.Debug("route denied", "route", route.Path)
			http.Redirect(w, r, "/", http.StatusFound)
		})
	}
}

// Mount registers every route with a handler on router, each behind its guard.
func Mount(router chi.Router, svc *Service, sec *Security) {
	for _, route := range svc.All() {
		if route.Handler == nil {
			continue
		}
		router.With(sec.Guard(route)).Method(http.MethodGet, route.Path, route.Handler)
	}
}
