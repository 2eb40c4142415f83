// Package metrics exposes Prometheus collectors for the application shell.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appshell",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "appshell",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appshell",
			Subsystem: "auth",
			Name:      "sign_ins_total",
			Help:      "Completed sign-in attempts by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	signOuts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "appshell",
			Subsystem: "auth",
			Name:      "sign_outs_total",
			Help:      "Total number of sign-outs.",
		},
	)

	guardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appshell",
			Subsystem: "routes",
			Name:      "guard_decisions_total",
			Help:      "Route guard decisions by route and decision.",
		},
		[]string{"route", "decision"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, signIns, signOuts, guardDecisions)
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordSignIn counts a completed sign-in attempt. flow is "interactive" or
// "silent"; outcome is "success" or "failure".
func RecordSignIn(flow, outcome string) {
	signIns.WithLabelValues(flow, outcome).Inc()
}

// RecordSignOut counts a sign-out.
func RecordSignOut() {
	signOuts.Inc()
}

// RecordGuardDecision counts a route guard decision. decision is one of
// "allowed", "sign_in" or "denied".
func RecordGuardDecision(route, decision string) {
	guardDecisions.WithLabelValues(route, decision).Inc()
}

// InstrumentHandler records request counts and durations, labelled with the
// matched chi route pattern to keep cardinality bounded.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
