// Package throttle counts failed login attempts per key in a fixed window.
package throttle

import (
	"context"
	"time"
)

// Limiter tracks failures for a key. A key is blocked once it has collected
// max failures inside the current window; the window starts at the first
// failure and a successful login resets it.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Config holds the fixed-window limits shared by every Limiter.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}
