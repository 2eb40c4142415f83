package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesAssets(t *testing.T) {
	for _, name := range []string{"app.css", "app.js"} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, StaticPath(name), nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestHandler_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, StaticPath("missing.js"), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
