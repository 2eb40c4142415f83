package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSignIn(t *testing.T) {
	before := testutil.ToFloat64(signIns.WithLabelValues("interactive", "success"))
	RecordSignIn("interactive", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(signIns.WithLabelValues("interactive", "success")))
}

func TestRecordGuardDecision(t *testing.T) {
	before := testutil.ToFloat64(guardDecisions.WithLabelValues("charts", "sign_in"))
	RecordGuardDecision("charts", "sign_in")
	RecordGuardDecision("charts", "sign_in")
	assert.Equal(t, before+2, testutil.ToFloat64(guardDecisions.WithLabelValues("charts", "sign_in")))
}

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/{id}", "418")))
}

func TestInstrumentHandler_StreamingResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/events", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data: hello\n\n"))
		w.(http.Flusher).Flush()
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/events", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.True(t, rec.Flushed)
	assert.Equal(t, "data: hello\n\n", rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/events", "200")))
}

func TestInstrumentHandler_NoWriteCountsAsOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/empty", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/empty", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/empty", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/empty", "200")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordSignOut()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "appshell_auth_sign_outs_total")
}
