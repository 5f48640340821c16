package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurstThenRefill(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	l := New(2, 3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("burst exhausted, request should be rejected")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatalf("other keys have their own bucket")
	}

	now = now.Add(500 * time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Fatalf("one token should have refilled")
	}
}

func TestIdleKeysEvicted(t *testing.T) {
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	l := New(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	now = now.Add(2 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Fatalf("expected idle keys evicted, have %d", l.Len())
	}
}
