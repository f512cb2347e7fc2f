package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/contactbook-backend/pkg/metrics"
)

// Metrics records request counts and latency labelled by the matched chi route,
// so path parameters and query strings never explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.Start()
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rec.statusCode() != http.StatusNotFound {
				route = routePattern(r)
			}
			done(r.Method, route, rec.statusCode(), time.Since(start))
		})
	}
}
