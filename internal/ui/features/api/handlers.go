// Package api provides the JSON API of the application shell.
package api

import (
	"net/http"
	"time"

	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/charts"
	"github.com/leapstack-labs/appshell/internal/config"
	chartsFeature "github.com/leapstack-labs/appshell/internal/ui/features/charts"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
)

// MeResponse describes the signed-in user.
type MeResponse struct {
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// MenuEntry is a visible navigation entry.
type MenuEntry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// ClientConfigResponse is the public part of the OIDC client configuration.
type ClientConfigResponse struct {
	Authority             string   `json:"authority"`
	ClientID              string   `json:"client_id"`
	RedirectURI           string   `json:"redirect_uri"`
	SilentRedirectURI     string   `json:"silent_redirect_uri"`
	PostLogoutRedirectURI string   `json:"post_logout_redirect_uri"`
	Scopes                []string `json:"scopes"`
}

// Handlers provides HTTP handlers for the API.
type Handlers struct {
	sessions auth.SessionProvider
	shell    *common.Shell
	settings config.ClientSettings
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions auth.SessionProvider, shell *common.Shell, settings config.ClientSettings, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{sessions: sessions, shell: shell, settings: settings, now: now}
}

// RequireSession answers 401 to requests without a session.
func (h *Handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sessions.CurrentUser(r); !ok {
			common.WriteJSONError(w, http.StatusUnauthorized, auth.ErrNoSession)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Me returns the signed-in user.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.CurrentUser(r)
	if !ok {
		common.WriteJSONError(w, http.StatusUnauthorized, auth.ErrNoSession)
		return
	}
	common.WriteJSON(w, http.StatusOK, MeResponse{Subject: user.Subject, ExpiresAt: user.ExpiresAt})
}

// Menu returns the navigation entries visible to the requester.
func (h *Handlers) Menu(w http.ResponseWriter, r *http.Request) {
	entries := []MenuEntry{}
	for _, item := range h.shell.Data(r, "").Nav {
		entries = append(entries, MenuEntry{Path: item.Path, Label: item.Label, Icon: item.Icon})
	}
	common.WriteJSON(w, http.StatusOK, entries)
}

// Series returns the chart series. ?merge=true returns the total only.
func (h *Handlers) Series(w http.ResponseWriter, r *http.Request) {
	series := chartsFeature.Series(h.now(), chartsFeature.MergeParam(r))
	if series == nil {
		series = []charts.Series{}
	}
	common.WriteJSON(w, http.StatusOK, series)
}

// ClientConfig returns the OIDC client configuration the server uses.
func (h *Handlers) ClientConfig(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, ClientConfigResponse{
		Authority:             h.settings.Authority,
		ClientID:              h.settings.ClientID,
		RedirectURI:           h.settings.RedirectURI,
		SilentRedirectURI:     h.settings.SilentRedirectURI,
		PostLogoutRedirectURI: h.settings.PostLogoutRedirectURI,
		Scopes:                h.settings.Scopes,
	})
}
