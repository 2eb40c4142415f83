// Package routes declares the static route and menu table of the application
// shell and decides which routes and menu items the requesting browser may
// see.
package routes

import (
	"net/http"

	"github.com/leapstack-labs/appshell/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Route is a navigable path of the application.
type Route struct {
	Path           string
	Name           string
	Icon           string
	AllowAnonymous bool
	Handler        http.Handler
}

// MenuItem is a Route with its navigation label.
type MenuItem struct {
	Route
	Label string
}

// Views holds the handlers bound to the static routes. Nil handlers are
// declared but not mounted.
type Views struct {
	Home                http.Handler
	Charts              http.Handler
	Layout              http.Handler
	LoginRedirect       http.Handler
	SilentLoginRedirect http.Handler
	LoggedOut           http.Handler
	SignOut             http.Handler
}

// Service holds the route table. It is assembled once and never mutated.
type Service struct {
	menu []Route
	pure []Route
}

// NewService assembles the route table.
func NewService(v Views) *Service {
	return &Service{
		menu: []Route{
			{Path: "/", Name: "home", Icon: "house", AllowAnonymous: true, Handler: v.Home},
			{Path: "/charts", Name: "charts", Icon: "chart-line", Handler: v.Charts},
			{Path: "/layout", Name: "layout", Icon: "columns", Handler: v.Layout},
		},
		pure: []Route{
			{Path: config.LoginRedirectPath, Name: "login-redirect", AllowAnonymous: true, Handler: v.LoginRedirect},
			{Path: config.SilentLoginRedirectPath, Name: "silent-login-redirect", AllowAnonymous: true, Handler: v.SilentLoginRedirect},
			{Path: config.LoggedOutPath, Name: "logged-out", AllowAnonymous: true, Handler: v.LoggedOut},
			{Path: "/signout", Name: "sign-out", AllowAnonymous: true, Handler: v.SignOut},
		},
	}
}

// MenuRoutes returns the routes shown in navigation, in display order.
func (s *Service) MenuRoutes() []Route {
	return append([]Route(nil), s.menu...)
}

// PureRoutes returns the routes that never appear in navigation.
func (s *Service) PureRoutes() []Route {
	return append([]Route(nil), s.pure...)
}

// All returns menu routes followed by pure routes.
func (s *Service) All() []Route {
	all := make([]Route, 0, len(s.menu)+len(s.pure))
	all = append(all, s.menu...)
	return append(all, s.pure...)
}

// Lookup returns the route declared for path.
func (s *Service) Lookup(path string) (Route, bool) {
	for _, r := range s.All() {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// MenuItems returns the menu routes with their labels.
func (s *Service) MenuItems() []MenuItem {
	title := cases.Title(language.English)
	items := make([]MenuItem, len(s.menu))
	for i, r := range s.menu {
		items[i] = MenuItem{Route: r, Label: title.String(r.Name)}
	}
	return items
}
