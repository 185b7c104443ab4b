package signal

import (
	"testing"
	"time"
)

func TestEventRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newEventRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("call %d blocked, want allowed", i)
		}
	}
	if rl.Allow() {
		t.Fatal("call over limit allowed, want blocked")
	}
}

func TestEventRateLimiter_WindowSlides(t *testing.T) {
	rl := newEventRateLimiter(2, 20*time.Millisecond)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("initial calls blocked")
	}
	if rl.Allow() {
		t.Fatal("third call allowed inside window")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow() {
		t.Fatal("call blocked after window expired")
	}
}
