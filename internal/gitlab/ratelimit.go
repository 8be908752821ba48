package gitlab

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RateLimitState holds the quota values most recently observed on a response.
// The zero value means nothing has been observed yet.
type RateLimitState struct {
	Limit      int
	Remaining  int
	Reset      time.Time
	ObservedAt time.Time

	limitKnown     bool
	remainingKnown bool
}

// Known reports whether both limit and remaining have been observed.
func (s RateLimitState) Known() bool {
	return s.limitKnown && s.remainingKnown
}

// quotaHeader returns the first non-empty value for the standard and
// x-prefixed spellings of a rate-limit header.
func quotaHeader(h http.Header, name string) string {
	if v := h.Get("RateLimit-" + name); v != "" {
		return v
	}
	return h.Get("X-RateLimit-" + name)
}

// updateRateLimit refreshes the client's rate-limit state from response
// headers. Called on every response, success or error; the newest observed
// value always wins.
func (c *Client) updateRateLimit(h http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if v := quotaHeader(h, "Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.rl.Limit = n
			c.rl.limitKnown = true
			c.rl.ObservedAt = now
		}
	}
	if v := quotaHeader(h, "Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.rl.Remaining = n
			c.rl.remainingKnown = true
			c.rl.ObservedAt = now
		}
	}
	if v := quotaHeader(h, "Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.rl.Reset = time.Unix(epoch, 0)
			c.rl.ObservedAt = now
		}
	}
}

// RateLimit returns a copy of the current rate-limit state.
func (c *Client) RateLimit() RateLimitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rl
}

// ApproachingLimit reports whether remaining/limit has dropped to or below
// threshold. Zero or negative threshold uses the default of 0.1. Returns
// false while either value is unknown.
func (c *Client) ApproachingLimit(threshold float64) bool {
	if threshold <= 0 {
		threshold = 0.1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.rl.limitKnown || !c.rl.remainingKnown || c.rl.Limit == 0 {
		return false
	}
	return float64(c.rl.Remaining)/float64(c.rl.Limit) <= threshold
}

// WaitForLimit blocks until the observed quota window resets, but only when
// the quota is exhausted and the reset time is in the future. Otherwise it
// returns immediately.
func (c *Client) WaitForLimit(ctx context.Context) error {
	c.mu.Lock()
	remaining := c.rl.Remaining
	known := c.rl.remainingKnown
	reset := c.rl.Reset
	c.mu.Unlock()

	if !known || remaining != 0 {
		return nil
	}
	wait := time.Until(reset)
	if wait <= 0 {
		return nil
	}

	c.logger.Info("rate limit exhausted, waiting for reset",
		zap.Duration("wait", wait),
		zap.Time("reset", reset))

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
