package middleware

import (
	"sync"
	"testing"
	"time"
)

func TestSlidingWindowLimit(t *testing.T) {
	current := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := newSlidingWindowLimiterAt(5, time.Minute, func() time.Time { return current })

	for i := 0; i < 5; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
		current = current.Add(time.Second)
	}

	if rl.Allow("1.2.3.4") {
		t.Fatal("6th request within the window should be rejected")
	}

	// Rejected requests are not recorded; still rejected a moment later.
	current = current.Add(time.Second)
	if rl.Allow("1.2.3.4") {
		t.Fatal("request should still be rejected inside the window")
	}

	// Past the window the oldest entries expire.
	current = current.Add(2 * time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request after the window should be allowed again")
	}
}

func TestSlidingWindowPerIdentifier(t *testing.T) {
	current := time.Now()
	rl := newSlidingWindowLimiterAt(1, time.Minute, func() time.Time { return current })

	if !rl.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second request for a should be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("b has its own window and should pass")
	}
}

func TestSlidingWindowConcurrentLastSlot(t *testing.T) {
	rl := NewSlidingWindowLimiter(5, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("race")
		}()
	}
	wg.Wait()
	close(allowed)

	passed := 0
	for ok := range allowed {
		if ok {
			passed++
		}
	}
	if passed != 5 {
		t.Fatalf("expected exactly 5 concurrent requests to pass, got %d", passed)
	}
}
