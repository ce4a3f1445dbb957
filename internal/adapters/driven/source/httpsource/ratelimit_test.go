package httpsource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func shortContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestRateLimiter_Unlimited(t *testing.T) {
	r := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.NoError(t, r.Wait(context.Background()))
	}
}

func TestRateLimiter_Throttles(t *testing.T) {
	r := NewRateLimiter(1, 1)
	assert.NoError(t, r.Wait(context.Background()))
	assert.Error(t, r.Wait(shortContext(t)))
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter(0.01, 1)
	assert.NoError(t, r.Wait(context.Background()))
	assert.Error(t, r.Wait(shortContext(t)))
}

func TestRateLimiter_Backoff(t *testing.T) {
	r := NewRateLimiter(0, 1)
	r.RecordRateLimitError(50 * time.Millisecond)
	assert.ErrorIs(t, r.Wait(shortContext(t)), context.DeadlineExceeded)

	start := time.Now()
	assert.NoError(t, r.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.NoError(t, r.Wait(shortContext(t)))
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	r := NewRateLimiter(0, 1)
	r.RecordRateLimitError(0)

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(defaultBackoff), retryAt, time.Second)
}
