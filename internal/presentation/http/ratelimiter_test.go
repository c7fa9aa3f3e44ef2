package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, 3, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	key := "1.2.3.4"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Fatalf("expected fourth request to be denied")
	}

	current = current.Add(time.Second)

	if !rl.Allow(key) {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time { return current }

	if !rl.Allow("a") {
		t.Fatalf("expected first request for a to be allowed")
	}
	if rl.Allow("a") {
		t.Fatalf("expected second request for a to be denied")
	}
	if !rl.Allow("b") {
		t.Fatalf("expected b to have its own bucket")
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Hour)
	t.Cleanup(rl.Close)

	current := time.Unix(0, 0)
	rl.now = func() time.Time { return current }

	rl.Allow("a")
	current = current.Add(30 * time.Minute)
	rl.Allow("b")
	current = current.Add(45 * time.Minute)

	rl.pruneStale()

	if count := rl.clientCount(); count != 1 {
		t.Fatalf("expected only the recent client to survive, got %d", count)
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Close()
	rl.Close()
}
