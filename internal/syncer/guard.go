package syncer

import (
	"sync"
	"time"
)

const defaultCooldown = 5 * time.Minute

// Guard is the process-wide admission gate for sync runs. A run is
// admitted only when no run is in flight and the cooldown has elapsed
// since the previous completion; the check and the claim happen under
// one mutex so concurrent triggers cannot both pass. State is in-memory
// only and resets on process restart, which the periodic caller
// tolerates.
type Guard struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSync time.Time
	running  bool
	now      func() time.Time
}

// NewGuard constructs a guard; non-positive cooldowns fall back to the
// five-minute default.
func NewGuard(cooldown time.Duration) *Guard {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &Guard{cooldown: cooldown, now: time.Now}
}

// Begin claims the gate. It returns false when a run is already in
// flight or the cooldown window since the last completion is still
// open.
func (g *Guard) Begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false
	}
	if !g.lastSync.IsZero() && g.now().Sub(g.lastSync) < g.cooldown {
		return false
	}
	g.running = true
	return true
}

// Complete releases the gate and records the run's completion time,
// which anchors the next cooldown window.
func (g *Guard) Complete(endTime time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	g.lastSync = endTime
}

// Cooldown reports the configured window.
func (g *Guard) Cooldown() time.Duration {
	return g.cooldown
}
