package ratelimit

// NopLimiter admits every request; used when the configured limit is zero.
type NopLimiter struct{}

// Allow admits key.
func (NopLimiter) Allow(string) bool { return true }

// NewNopLimiter returns a Limiter that never rejects.
func NewNopLimiter() Limiter { return NopLimiter{} }
