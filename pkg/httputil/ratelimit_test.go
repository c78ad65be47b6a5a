package httputil

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(5)

	for i := 0; i < 5; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Remaining("client-a") != 0 {
		t.Errorf("remaining = %d, want 0", rl.Remaining("client-a"))
	}
	if rl.Allow("client-a") {
		t.Error("sixth request should be denied")
	}
}

func TestRateLimiterIsolatesIdentifiers(t *testing.T) {
	rl := NewRateLimiter(1)

	if !rl.Allow("client-a") {
		t.Fatal("first request for a should pass")
	}
	if !rl.Allow("client-b") {
		t.Error("client b must not be affected by client a")
	}
}

func TestRateLimiterBlocksAfterBreach(t *testing.T) {
	current := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(2)
	rl.now = func() time.Time { return current }

	rl.Allow("client-a")
	rl.Allow("client-a")
	if rl.Allow("client-a") {
		t.Fatal("breach request should be denied")
	}

	// Window slides past, but the breach block still applies.
	current = current.Add(2 * time.Minute)
	if rl.Allow("client-a") {
		t.Error("blocked identifier should stay blocked inside cooldown")
	}

	// After the cooldown the identifier starts fresh.
	current = current.Add(5 * time.Minute)
	if !rl.Allow("client-a") {
		t.Error("identifier should be allowed after cooldown")
	}
}
