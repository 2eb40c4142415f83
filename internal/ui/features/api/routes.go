package api

import "github.com/go-chi/chi/v5"

// SetupRoutes mounts the API under apiPath.
func SetupRoutes(router chi.Router, apiPath string, handlers *Handlers) error {
	router.Route(apiPath, func(r chi.Router) {
		r.Get("/config", handlers.ClientConfig)
		r.Get("/menu", handlers.Menu)
		r.Get("/me", handlers.Me)
		r.With(handlers.RequireSession).Get("/charts/series", handlers.Series)
	})
	return nil
}
