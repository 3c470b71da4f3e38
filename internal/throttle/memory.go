package throttle

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a Limiter for a single process. Expired windows are swept at
// most once per Window, on the next failure.
type Memory struct {
	mu        sync.Mutex
	cfg       Config
	windows   map[string]*window
	now       func() time.Time
	lastSweep time.Time
}

// NewMemory creates an in-process Limiter.
func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether key may attempt another login.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.current(key)
	return w == nil || w.count < m.cfg.MaxAttempts, nil
}

// Fail records a failed attempt for key.
func (m *Memory) Fail(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()

	w := m.current(key)
	if w == nil {
		w = &window{resetAt: m.now().Add(m.cfg.Window)}
		m.windows[key] = w
	}
	w.count++
	return nil
}

// Reset forgets the failures of key.
func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.windows, key)
	m.mu.Unlock()
	return nil
}

// current returns the live window for key, dropping it once expired.
// m.mu must be held.
func (m *Memory) current(key string) *window {
	w, ok := m.windows[key]
	if !ok {
		return nil
	}
	if !m.now().Before(w.resetAt) {
		delete(m.windows, key)
		return nil
	}
	return w
}

// sweep drops every expired window once a full Window has passed since the
// previous sweep. m.mu must be held.
func (m *Memory) sweep() {
	now := m.now()
	if now.Sub(m.lastSweep) < m.cfg.Window {
		return
	}
	m.lastSweep = now

	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}
