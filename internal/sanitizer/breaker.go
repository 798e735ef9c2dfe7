package sanitizer

import (
	"sync"
	"time"
)

// floodGuard is the log-flood circuit breaker. A text producing an unusual
// number of candidates for a single rule is counted as suspicious; once the
// accumulated count passes the threshold the circuit opens and the scanner
// discards input until the reset window elapses.
type floodGuard struct {
	mu        sync.Mutex
	threshold int
	reset     time.Duration
	now       func() time.Time

	count    int
	open     bool
	openedAt time.Time
}

func newFloodGuard(threshold int, reset time.Duration) *floodGuard {
	return &floodGuard{
		threshold: threshold,
		reset:     reset,
		now:       time.Now,
	}
}

// blocked reports whether the circuit is currently open, closing it again
// when the reset window has passed.
func (g *floodGuard) blocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open {
		return false
	}
	if g.now().Sub(g.openedAt) > g.reset {
		g.open = false
		g.count = 0
		return false
	}
	return true
}

// add records n suspicious matches and reports whether the circuit tripped.
func (g *floodGuard) add(n int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count += n
	if g.count > g.threshold {
		g.open = true
		g.openedAt = g.now()
		return true
	}
	return false
}
