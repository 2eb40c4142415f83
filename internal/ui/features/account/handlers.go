// Package account provides the sign-in, sign-out and OIDC redirect pages.
package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/ui/components"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the account feature.
type Handlers struct {
	auth   *auth.Service
	shell  *common.Shell
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authSvc *auth.Service, shell *common.Shell, logger *slog.Logger) *Handlers {
	return &Handlers{auth: authSvc, shell: shell, logger: logger}
}

// SignIn starts an interactive sign-in. ?returnUrl= names the local path to
// come back to.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignIn(w, r, r.URL.Query().Get("returnUrl")); err != nil {
		h.logger.Error("failed to start sign-in", "error", err)
		h.renderError(w, r, http.StatusBadGateway, "The identity provider is unavailable. Please try again later.")
	}
}

// SilentSignIn starts a background renewal inside the hidden iframe.
func (h *Handlers) SilentSignIn(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignInSilent(w, r); err != nil {
		h.logger.Warn("failed to start silent renew", "error", err)
		common.Render(w, r, http.StatusOK, components.SilentCallback(false))
	}
}

// LoginRedirect completes an interactive sign-in and resumes navigation at
// the stored path. Failures are shown in a dialog and not retried.
func (h *Handlers) LoginRedirect(w http.ResponseWriter, r *http.Request) {
	returnPath, err := h.auth.EndSignIn(w, r)
	if err != nil {
		h.renderError(w, r, http.StatusUnauthorized, signInMessage(err))
		return
	}
	if returnPath == "" {
		returnPath = "/"
	}
	http.Redirect(w, r, returnPath, http.StatusFound)
}

// SilentLoginRedirect completes a background renewal. It never navigates.
func (h *Handlers) SilentLoginRedirect(w http.ResponseWriter, r *http.Request) {
	err := h.auth.EndSignInSilent(w, r)
	common.Render(w, r, http.StatusOK, components.SilentCallback(err == nil))
}

// LoggedOut renders the page the provider returns to after sign-out.
func (h *Handlers) LoggedOut(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, http.StatusOK, components.LoggedOut(h.shell.Data(r, "Signed out")))
}

// SignOut ends the session.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	h.auth.SignOut(w, r)
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	common.Render(w, r, status, components.LoginError(h.shell.Data(r, "Sign-in failed"), message))
}

func signInMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrNoPendingSignIn):
		return "No sign-in was in progress in this browser. Please sign in again."
	case errors.Is(err, auth.ErrStateMismatch):
		return "The sign-in response did not match the request. Please sign in again."
	default:
		return err.Error()
	}
}
