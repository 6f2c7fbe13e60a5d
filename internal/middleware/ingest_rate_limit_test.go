package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIngestRateLimiter_CooldownWindow(t *testing.T) {
	limiter := NewIngestRateLimiter()
	key := SellerIngestKey(42)

	first := limiter.Check(key, 50*time.Millisecond)
	assert.True(t, first.Allowed)

	second := limiter.Check(key, 50*time.Millisecond)
	assert.False(t, second.Allowed)
	assert.Greater(t, second.RetryAfter, time.Duration(0))

	time.Sleep(60 * time.Millisecond)
	third := limiter.Check(key, 50*time.Millisecond)
	assert.True(t, third.Allowed)
}

func TestIngestRateLimiter_KeysIndependent(t *testing.T) {
	limiter := NewIngestRateLimiter()

	assert.True(t, limiter.Check(SellerIngestKey(1), time.Hour).Allowed)
	// 另一个卖家不受影响
	assert.True(t, limiter.Check(SellerIngestKey(2), time.Hour).Allowed)
}
