package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Equal(t, 100*time.Millisecond, policy.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, policy.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, policy.NextDelay(3))

	// Clamped at MaxDelay.
	assert.Equal(t, time.Second, policy.NextDelay(10))

	// Attempts below 1 behave like the first attempt.
	assert.Equal(t, 100*time.Millisecond, policy.NextDelay(0))
}

func TestNextDelayZeroPolicy(t *testing.T) {
	var policy RetryPolicy
	assert.Equal(t, 2*time.Second, policy.NextDelay(1))
	assert.Equal(t, 4*time.Second, policy.NextDelay(2))
	assert.Equal(t, time.Minute, policy.NextDelay(20))
}

func TestNormalized(t *testing.T) {
	policy := RetryPolicy{}.normalized()
	assert.Equal(t, 5, policy.MaxRetries)
	assert.Equal(t, 2*time.Second, policy.InitialDelay)
	assert.Equal(t, time.Minute, policy.MaxDelay)
	assert.Equal(t, 2.0, policy.BackoffFactor)

	// Explicit values survive normalization.
	custom := RetryPolicy{MaxRetries: 1, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 3}.normalized()
	assert.Equal(t, RetryPolicy{MaxRetries: 1, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 3}, custom)
}
