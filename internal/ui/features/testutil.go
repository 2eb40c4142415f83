// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/appshell/internal/auth"
	"github.com/leapstack-labs/appshell/internal/auth/authtest"
	"github.com/leapstack-labs/appshell/internal/authz"
	"github.com/leapstack-labs/appshell/internal/config"
	"github.com/leapstack-labs/appshell/internal/routes"
	"github.com/leapstack-labs/appshell/internal/testutil"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
	"github.com/leapstack-labs/appshell/internal/ui/notifier"
)

// Test identity used by the fixture.
const (
	TestOrigin   = "http://app.test"
	TestClientID = "appshell"
	TestAPIPath  = "/api"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	IdP          *authtest.IdP
	Config       *config.AppConfig
	Auth         *auth.Service
	Roles        *authz.Service
	Security     *routes.Security
	Shell        *common.Shell
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a fixture backed by an in-process identity
// provider.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	idp := authtest.New(t, TestClientID)

	cfg := &config.AppConfig{
		APIPath:        TestAPIPath,
		IdentityServer: config.IdentityServerConfig{ClientID: TestClientID, URL: idp.URL()},
	}
	config.ApplyDefaults(cfg)
	require.NoError(t, cfg.Validate())

	store := NewTestSessionStore()
	authSvc := auth.NewService(auth.Options{
		Settings: cfg.ClientSettings(TestOrigin),
		Store:    store,
		Provider: auth.NewProvider(idp.URL(), idp.Client()),
		Logger:   logger,
	})
	roles := authz.NewService(logger)
	security := routes.NewSecurity(authSvc, roles, authSvc, logger)

	return &TestFixture{
		IdP:      idp,
		Config:   cfg,
		Auth:     authSvc,
		Roles:    roles,
		Security: security,
		Shell: &common.Shell{
			Sessions: authSvc,
			Menu:     routes.NewService(routes.Views{}).MenuItems(),
			Security: security,
			IsDev:    false,
		},
		Notifier:     notifier.New(),
		SessionStore: store,
	}
}

// SignIn runs a complete sign-in for subject and returns the session cookies.
func (f *TestFixture) SignIn(t *testing.T, subject string) []*http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, f.Auth.SignIn(rec, httptest.NewRequest(http.MethodGet, "/signin", nil), "/"))
	flowCookies := rec.Result().Cookies()

	callback := f.IdP.IssueCode(t, subject, rec.Header().Get("Location"))
	req := WithCookies(httptest.NewRequest(http.MethodGet, callback.RequestURI(), nil), flowCookies)
	rec = httptest.NewRecorder()
	_, err := f.Auth.EndSignIn(rec, req)
	require.NoError(t, err)

	var live []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			live = append(live, c)
		}
	}
	return live
}

// WithCookies adds cookies to r.
func WithCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return auth.NewCookieStore("test-secret-key-32-bytes-long!!!", time.Hour, false)
}
