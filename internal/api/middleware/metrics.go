package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters are the request totals exposed on /metrics.
type Counters struct {
	Requests    atomic.Int64
	Errors      atomic.Int64
	RateLimited atomic.Int64
	InFlight    atomic.Int64
}

// Metrics returns middleware that updates c for every request. Any 4xx or 5xx
// counts as an error.
func Metrics(c *Counters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Requests.Add(1)
			c.InFlight.Add(1)
			defer c.InFlight.Add(-1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			if rw.statusCode == http.StatusTooManyRequests {
				c.RateLimited.Add(1)
			}
			if rw.statusCode >= 400 {
				c.Errors.Add(1)
			}
		})
	}
}
