package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"todocore/internal/core"
)

const requestIDHeader = "X-Request-Id"

// requestID tags every response with a request id, echoing the caller's id
// when one is supplied.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogging emits one structured line per request after it completes.
func requestLogging(logger core.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"duration_ms", float64(m.Duration)/float64(time.Millisecond),
				"request_id", w.Header().Get(requestIDHeader),
			)
		})
	}
}

// requestMetrics records request counts and latencies per routed template so
// label cardinality stays bounded regardless of the ids requested.
func requestMetrics(reg *prometheus.Registry) mux.MiddlewareFunc {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todocore",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route template, and status code.",
	}, []string{"method", "route", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "todocore",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, durations)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeTemplate(r)
			m := httpsnoop.CaptureMetrics(next, w, r)
			requests.WithLabelValues(r.Method, route, strconv.Itoa(m.Code)).Inc()
			durations.WithLabelValues(r.Method, route).Observe(m.Duration.Seconds())
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
