package layout

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the layout event endpoint. The page itself is part
// of the guarded route table.
func SetupRoutes(router chi.Router, handlers *Handlers) error {
	router.Post("/layout/{event}", handlers.Event)
	return nil
}
