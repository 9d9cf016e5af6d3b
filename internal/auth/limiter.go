package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles credential checks per email so a stolen address
// cannot be brute-forced through the login endpoint.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLoginLimiter(limit rate.Limit, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow reports whether another attempt for email fits in its budget.
func (l *LoginLimiter) Allow(email string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[email] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
