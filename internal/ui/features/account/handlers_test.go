package account

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/appshell/internal/config"
	"github.com/leapstack-labs/appshell/internal/testutil"
	"github.com/leapstack-labs/appshell/internal/ui/features"
)

type testEnv struct {
	fixture *features.TestFixture
	router  chi.Router
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Auth, fixture.Shell, testutil.NewTestLogger(t))

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, h))
	r.Get(config.LoginRedirectPath, h.LoginRedirect)
	r.Get(config.SilentLoginRedirectPath, h.SilentLoginRedirect)
	r.Get(config.LoggedOutPath, h.LoggedOut)
	r.Get("/signout", h.SignOut)

	return &testEnv{fixture: fixture, router: r}
}

func (e *testEnv) get(target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := features.WithCookies(httptest.NewRequest(http.MethodGet, target, nil), cookies)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestSignInRoundTrip(t *testing.T) {
	env := setup(t)

	rec := env.get("/signin?returnUrl=%2Fcharts", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	callback := env.fixture.IdP.IssueCode(t, "alice", rec.Header().Get("Location"))
	rec = env.get(callback.RequestURI(), rec.Result().Cookies())

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/charts", rec.Header().Get("Location"))
}

func TestLoginRedirect_StaysLocal(t *testing.T) {
	tests := []struct {
		name       string
		returnPath string
		want       string
	}{
		{name: "tab before slash", returnPath: "/\t/evil.example", want: "/"},
		{name: "newline before slash", returnPath: "/\n/evil.example", want: "/"},
		{name: "protocol relative", returnPath: "//evil.example", want: "/"},
		{name: "absolute url", returnPath: "https://evil.example/", want: "/"},
		{name: "local path with query", returnPath: "/charts?merge=true", want: "/charts?merge=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)

			rec := env.get("/signin?returnUrl="+url.QueryEscape(tt.returnPath), nil)
			require.Equal(t, http.StatusFound, rec.Code)

			callback := env.fixture.IdP.IssueCode(t, "alice", rec.Header().Get("Location"))
			rec = env.get(callback.RequestURI(), rec.Result().Cookies())

			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLoginRedirect_DefaultsToHome(t *testing.T) {
	env := setup(t)

	rec := env.get("/signin", nil)
	callback := env.fixture.IdP.IssueCode(t, "alice", rec.Header().Get("Location"))
	rec = env.get(callback.RequestURI(), rec.Result().Cookies())

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLoginRedirect_ShowsErrorDialog(t *testing.T) {
	tests := []struct {
		name     string
		target   func(env *testEnv) (string, []*http.Cookie)
		wantText string
	}{
		{
			name: "no pending sign-in",
			target: func(*testEnv) (string, []*http.Cookie) {
				return config.LoginRedirectPath + "?code=x&state=y", nil
			},
			wantText: "No sign-in was in progress",
		},
		{
			name: "provider error",
			target: func(env *testEnv) (string, []*http.Cookie) {
				rec := env.get("/signin", nil)
				u, _ := url.Parse(rec.Header().Get("Location"))
				q := url.Values{"error": {"access_denied"}, "state": {u.Query().Get("state")}}
				return config.LoginRedirectPath + "?" + q.Encode(), rec.Result().Cookies()
			},
			wantText: "access_denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			target, cookies := tt.target(env)

			rec := env.get(target, cookies)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `<dialog id="login-error"`)
			assert.Contains(t, body, tt.wantText)
		})
	}
}

func TestSilentRenew(t *testing.T) {
	env := setup(t)

	rec := env.get("/signin/silent", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "prompt=none")

	callback := env.fixture.IdP.IssueCode(t, "alice", location)
	rec = env.get(callback.RequestURI(), rec.Result().Cookies())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok: true")
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestSilentRenew_FailureDoesNotNavigate(t *testing.T) {
	env := setup(t)

	rec := env.get(config.SilentLoginRedirectPath+"?error=login_required", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok: false")
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestSignOut(t *testing.T) {
	env := setup(t)
	cookies := env.fixture.SignIn(t, "alice")

	rec := env.get("/signout", cookies)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), env.fixture.IdP.URL()+"/logout")
}

func TestLoggedOut(t *testing.T) {
	env := setup(t)

	rec := env.get(config.LoggedOutPath, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You have been signed out.")
}
