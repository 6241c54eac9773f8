package backend

import (
	"golang.org/x/time/rate"
)

// newLimiter creates the outbound request limiter; rps <= 0 disables it.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
