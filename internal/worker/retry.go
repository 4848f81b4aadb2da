package worker

import (
	"math"
	"time"
)

// Export snapshot backoff defaults, applied to zero policy fields.
const (
	defaultMaxRetries   = 5
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = time.Minute
	defaultBackoff      = 2.0
)

// RetryPolicy shapes the backoff between snapshot attempts.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// normalized fills zero or negative fields with the export defaults, so a
// zero-value policy is usable as-is.
func (r RetryPolicy) normalized() RetryPolicy {
	if r.MaxRetries <= 0 {
		r.MaxRetries = defaultMaxRetries
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = defaultInitialDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = defaultMaxDelay
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = defaultBackoff
	}
	return r
}

// NextDelay returns the delay before the given attempt (1-based), growing by
// BackoffFactor and clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	r = r.normalized()

	delay := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if delay > r.MaxDelay || delay <= 0 {
		delay = r.MaxDelay
	}
	return delay
}
