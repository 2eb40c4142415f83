package account

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the sign-in entry points. The redirect, logged-out
// and sign-out pages are part of the guarded route table.
func SetupRoutes(router chi.Router, handlers *Handlers) error {
	router.Get("/signin", handlers.SignIn)
	router.Get("/signin/silent", handlers.SilentSignIn)
	return nil
}
