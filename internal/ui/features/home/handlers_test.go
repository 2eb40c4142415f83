package home

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/appshell/internal/ui/features"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	return NewHandlers(fixture.Shell), fixture
}

func TestHomePage(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		wantBody []string
		notBody  []string
	}{
		{
			name: "anonymous sees home only",
			wantBody: []string{
				"<!doctype html>",
				"<title>Dashboard - AppShell</title>",
				`href="/"`,
				"Sign in",
				"browsing anonymously",
			},
			notBody: []string{`href="/charts"`, `href="/layout"`, `href="/signout"`},
		},
		{
			name:    "signed-in user sees protected menu items",
			subject: "alice",
			wantBody: []string{
				`href="/charts"`,
				`href="/layout"`,
				`href="/signout"`,
				"Signed in as <strong>alice</strong>",
			},
			notBody: []string{"browsing anonymously"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.subject != "" {
				req = features.WithCookies(req, fixture.SignIn(t, tt.subject))
			}
			rec := httptest.NewRecorder()

			h.HomePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, not := range tt.notBody {
				assert.NotContains(t, body, not)
			}
		})
	}
}
