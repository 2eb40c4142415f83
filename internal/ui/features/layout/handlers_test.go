package layout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/appshell/internal/layout"
	"github.com/leapstack-labs/appshell/internal/testutil"
	"github.com/leapstack-labs/appshell/internal/ui/features"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T, now time.Time) chi.Router {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Shell, testutil.NewTestLogger(t), func() time.Time { return now })

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, h))
	r.Get("/layout", h.LayoutPage)
	return r
}

func post(t *testing.T, r chi.Router, event string, sig layout.Signals) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(EventSignals{Layout: sig})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/layout/"+event, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// patched decodes the signals of the patch event in an SSE body.
func patched(t *testing.T, body string) layout.Signals {
	t.Helper()

	for _, line := range strings.Split(body, "\n") {
		payload, ok := strings.CutPrefix(line, "data: signals ")
		if !ok {
			continue
		}
		var out EventSignals
		require.NoError(t, json.Unmarshal([]byte(payload), &out))
		return out.Layout
	}
	t.Fatalf("no signals patch in %q", body)
	return layout.Signals{}
}

func TestEvent_Resize(t *testing.T) {
	r := setupRouter(t, t0)

	sig := layout.Initial().Signals()
	sig.Width, sig.HeaderHeight, sig.FooterHeight = 1250, 56, 32

	rec := post(t, r, EventResize, sig)
	require.Equal(t, http.StatusOK, rec.Code)

	got := patched(t, rec.Body.String())
	assert.Equal(t, int(layout.ExtraLarge), got.Screen)
	assert.Equal(t, "xl", got.ScreenName)
	assert.True(t, got.ThinSideBar)
	assert.Equal(t, 56, got.PadTop)
	assert.Equal(t, 32, got.PadBottom)
	assert.Equal(t, layout.ThinSideBarWidth, got.PadLeft)
}

func TestEvent_ToggleNarrowAndWide(t *testing.T) {
	r := setupRouter(t, t0)

	narrow := layout.Initial().Resize(400, 56, 32).Signals()
	got := patched(t, post(t, r, EventToggle, narrow).Body.String())
	assert.True(t, got.SideBarExpanded)
	assert.Equal(t, narrow.ThinSideBar, got.ThinSideBar)

	wide := layout.Initial().Resize(1500, 56, 32).Signals()
	got = patched(t, post(t, r, EventToggle, wide).Body.String())
	assert.Equal(t, !wide.ThinSideBar, got.ThinSideBar)
	assert.Equal(t, t0.UnixMilli(), got.ToggledAt)
}

func TestEvent_HoverRespectsDebounce(t *testing.T) {
	toggled := layout.Initial().Resize(1500, 56, 32).MenuToggle(t0).Signals()

	inside := setupRouter(t, t0.Add(100*time.Millisecond))
	rec := post(t, inside, EventHover, toggled)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "datastar-patch-signals", "no change inside debounce window")

	after := setupRouter(t, t0.Add(time.Second))
	got := patched(t, post(t, after, EventHover, toggled).Body.String())
	assert.True(t, got.HoverExpanded)
}

func TestEvent_ScrollAndClickOutside(t *testing.T) {
	r := setupRouter(t, t0)

	sig := layout.Initial().Resize(400, 56, 32).MenuToggle(t0).Signals()
	sig.ScrollY = 200
	got := patched(t, post(t, r, EventScroll, sig).Body.String())
	assert.False(t, got.IsScrollTop)
	assert.Equal(t, 200, got.ScrollY)

	got = patched(t, post(t, r, EventClickOutside, sig).Body.String())
	assert.False(t, got.SideBarExpanded)
}

func TestEvent_Errors(t *testing.T) {
	r := setupRouter(t, t0)

	rec := post(t, r, "explode", layout.Signals{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/layout/toggle", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLayoutPage(t *testing.T) {
	r := setupRouter(t, t0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Layout - AppShell</title>")
	assert.Contains(t, body, `data-text="$layout.screenName"`)
}
