package syncer

import (
	"testing"
	"time"
)

func TestGuardAdmitsFirstRun(t *testing.T) {
	guard := NewGuard(5 * time.Minute)
	if !guard.Begin() {
		t.Fatalf("expected first run to be admitted")
	}
}

func TestGuardRefusesWhileRunning(t *testing.T) {
	guard := NewGuard(5 * time.Minute)
	if !guard.Begin() {
		t.Fatalf("expected first run to be admitted")
	}
	if guard.Begin() {
		t.Fatalf("expected concurrent trigger to be refused")
	}
}

func TestGuardEnforcesCooldownFromCompletion(t *testing.T) {
	guard := NewGuard(5 * time.Minute)
	base := time.Unix(1700000000, 0).UTC()
	current := base
	guard.now = func() time.Time { return current }

	if !guard.Begin() {
		t.Fatalf("expected first run to be admitted")
	}
	guard.Complete(base.Add(90 * time.Second))

	// Window anchors on completion, not start.
	current = base.Add(5 * time.Minute)
	if guard.Begin() {
		t.Fatalf("expected run within cooldown of completion to be refused")
	}

	current = base.Add(90*time.Second + 5*time.Minute)
	if !guard.Begin() {
		t.Fatalf("expected run after cooldown to be admitted")
	}
}

func TestGuardDefaultsCooldown(t *testing.T) {
	guard := NewGuard(0)
	if guard.Cooldown() != 5*time.Minute {
		t.Fatalf("expected five minute default, got %v", guard.Cooldown())
	}
}
