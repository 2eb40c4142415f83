package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/appshell/internal/charts"
	"github.com/leapstack-labs/appshell/internal/ui/features"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
)

func setup(t *testing.T) (chi.Router, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	now := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := NewHandlers(fixture.Auth, fixture.Shell, fixture.Auth.Settings(), now)

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, features.TestAPIPath, h))
	return r, fixture
}

func get(r chi.Router, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, features.WithCookies(httptest.NewRequest(http.MethodGet, target, nil), cookies))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestMe(t *testing.T) {
	r, fixture := setup(t)

	rec := get(r, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no session", decode[common.ErrorResponse](t, rec).Error)

	rec = get(r, "/api/me", fixture.SignIn(t, "alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[MeResponse](t, rec)
	assert.Equal(t, "alice", me.Subject)
	assert.False(t, me.ExpiresAt.IsZero())
}

func TestMenu(t *testing.T) {
	r, fixture := setup(t)

	anonymous := decode[[]MenuEntry](t, get(r, "/api/menu", nil))
	require.Len(t, anonymous, 1)
	assert.Equal(t, MenuEntry{Path: "/", Label: "Home", Icon: "house"}, anonymous[0])

	signedIn := decode[[]MenuEntry](t, get(r, "/api/menu", fixture.SignIn(t, "alice")))
	var paths []string
	for _, e := range signedIn {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/", "/charts", "/layout"}, paths)
}

func TestSeries(t *testing.T) {
	r, fixture := setup(t)

	rec := get(r, "/api/charts/series", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := fixture.SignIn(t, "alice")

	all := decode[[]charts.Series](t, get(r, "/api/charts/series", cookies))
	assert.Len(t, all, len(charts.DefaultInstruments))

	merged := decode[[]charts.Series](t, get(r, "/api/charts/series?merge=true", cookies))
	require.Len(t, merged, 1)
	assert.Equal(t, charts.TotalName, merged[0].Name)
	assert.Len(t, merged[0].Points, len(all[0].Points))
}

func TestClientConfig(t *testing.T) {
	r, fixture := setup(t)

	rec := get(r, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := decode[ClientConfigResponse](t, rec)
	assert.Equal(t, fixture.IdP.URL(), cfg.Authority)
	assert.Equal(t, features.TestClientID, cfg.ClientID)
	assert.Equal(t, features.TestOrigin+"/OidcLoginRedirect", cfg.RedirectURI)
	assert.Equal(t, features.TestOrigin+"/OidcSilentLoginRedirect", cfg.SilentRedirectURI)
	assert.Equal(t, features.TestOrigin+"/loggedout", cfg.PostLogoutRedirectURI)
	assert.Equal(t, []string{"openid", "profile"}, cfg.Scopes)
	assert.NotContains(t, rec.Body.String(), "secret")
}
