package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, config *Config) *Limiter {
	t.Helper()
	limiter := NewLimiter(config)
	t.Cleanup(limiter.Stop)
	return limiter
}

func TestTokenBucket_Take(t *testing.T) {
	bucket := newTokenBucket(4, 1.0)

	for i := 0; i < 4; i++ {
		if allowed, _, _ := bucket.take(); !allowed {
			t.Fatalf("take %d: bucket denied while tokens remain", i+1)
		}
	}

	if allowed, remaining, _ := bucket.take(); allowed || remaining != 0 {
		t.Fatalf("take on empty bucket: allowed=%v remaining=%d", allowed, remaining)
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(2, 1.0) // one token per second
	bucket.take()
	bucket.take()

	if allowed, _, _ := bucket.take(); allowed {
		t.Fatal("empty bucket allowed a request before any refill")
	}

	time.Sleep(1100 * time.Millisecond)

	if allowed, _, _ := bucket.take(); !allowed {
		t.Fatal("bucket still empty after a full refill interval")
	}
	if allowed, _, _ := bucket.take(); allowed {
		t.Fatal("single refilled token allowed two requests")
	}
}

func TestTokenBucket_RemainingAndReset(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	// The last take reports what is left after five draws.
	var remaining int
	var resetTime time.Time
	for i := 0; i < 5; i++ {
		_, remaining, resetTime = bucket.take()
	}

	if remaining != 5 {
		t.Fatalf("remaining = %d after 5 of 10 taken, want 5", remaining)
	}
	if resetTime.Before(time.Now()) {
		t.Fatal("reset time of a drained bucket should be in the future")
	}
}

func TestTokenBucket_IdleSince(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	bucket.take()

	if bucket.idleSince(time.Now().Add(-time.Minute)) {
		t.Fatal("bucket used just now should not be idle")
	}
	if !bucket.idleSince(time.Now().Add(time.Minute)) {
		t.Fatal("bucket should be idle relative to a future cutoff")
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("10.0.0.9", "/audio", "GET")
		if !allowed {
			t.Fatalf("request %d denied under the limit", i+1)
		}
		if info.Limit != 10 || info.Remaining != 9-i {
			t.Fatalf("request %d: limit=%d remaining=%d", i+1, info.Limit, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("10.0.0.9", "/audio", "GET")
	if allowed {
		t.Fatal("request over the limit was allowed")
	}
	if info.Remaining != 0 || info.RetryAfter <= 0 {
		t.Fatalf("denied request: remaining=%d retryAfter=%v", info.Remaining, info.RetryAfter)
	}
}

func TestLimiter_ClientLists(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	// Whitelisted clients bypass bucket accounting entirely.
	for i := 0; i < 20; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/answers", "POST"); !allowed {
			t.Fatalf("whitelisted request %d denied", i+1)
		}
	}

	// Blacklisted clients never get through, even with budget to spare.
	if allowed, _ := limiter.Allow("10.0.0.2", "/answers", "POST"); allowed {
		t.Fatal("blacklisted request allowed")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("10.0.0.3", "/analyze", "POST")
		if !allowed {
			t.Fatalf("request %d denied with limiting disabled", i+1)
		}
		if info.Limit != 0 {
			t.Fatalf("disabled limiter reported limit %d", info.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/pipeline/start", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("10.0.0.6", "/pipeline/start", "POST")
		if !allowed {
			t.Fatalf("request %d denied within the endpoint burst", i+1)
		}
		if info.Limit != 5 {
			t.Fatalf("request %d reported limit %d, want the endpoint limit 5", i+1, info.Limit)
		}
	}

	if allowed, _ := limiter.Allow("10.0.0.6", "/pipeline/start", "POST"); allowed {
		t.Fatal("request past the endpoint burst was allowed")
	}

	// Other endpoints are unaffected and fall back to the default limit.
	allowed, info := limiter.Allow("10.0.0.6", "/audio", "GET")
	if !allowed || info.Limit != 1000 {
		t.Fatalf("unmatched endpoint: allowed=%v limit=%d, want default 1000", allowed, info.Limit)
	}
}

func TestLimiter_Burst(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/answers", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})

	// Burst caps the bucket below the per-window limit.
	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.7", "/answers", "POST"); !allowed {
			t.Fatalf("burst request %d denied", i+1)
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.7", "/answers", "POST"); allowed {
		t.Fatal("request after the burst allowed before any refill")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("10.0.0.4", "/sessions/cand-1a2b3c4d", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Fatalf("%d of 200 concurrent requests allowed, want exactly 100", allowed)
	}
}

func TestLimiter_SweepKeepsActiveBuckets(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 50 * time.Millisecond,
	})

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("10.0.1.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/audio", "GET"); !allowed {
			t.Fatalf("first request from %s denied", clientID)
		}
	}

	// Let the sweeper run; recently used buckets stay under the one hour
	// idle cutoff and must keep their counts.
	time.Sleep(120 * time.Millisecond)

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("10.0.1.%d", i+1)
		_, info := limiter.Allow(clientID, "/audio", "GET")
		if info.Remaining != 8 {
			t.Fatalf("bucket for %s did not survive the sweep: remaining=%d, want 8",
				clientID, info.Remaining)
		}
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("10.0.0.5", "/audio", "GET")
	if !allowed {
		t.Fatal("request denied under the fallback config")
	}
	if info.Limit != 1000 {
		t.Fatalf("fallback limit = %d, want 1000", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantPath  string
		unlimited bool
		isDefault bool
	}{
		{name: "start is tier 1", path: "/pipeline/start", method: "POST", wantPath: "/pipeline/start"},
		{name: "analyze is tier 1", path: "/analyze", method: "POST", wantPath: "/analyze"},
		{name: "answers is tier 2", path: "/answers", method: "POST", wantPath: "/answers"},
		{name: "health is unlimited", path: "/health", method: "GET", unlimited: true},
		{name: "metrics is unlimited", path: "/metrics", method: "GET", unlimited: true},
		{name: "session reads use the default", path: "/sessions/cand-1a2b3c4d", method: "GET", isDefault: true},
		{name: "audio reads use the default", path: "/audio", method: "GET", isDefault: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			switch {
			case tt.unlimited:
				if got == nil || got.Limit != 0 {
					t.Errorf("Expected unlimited config for %s, got %+v", tt.path, got)
				}
			case tt.isDefault:
				if got != nil {
					t.Errorf("Expected no match for %s (default limit), got %+v", tt.path, got)
				}
			default:
				if got == nil || got.Path != tt.wantPath {
					t.Errorf("Expected match on %s for %s, got %+v", tt.wantPath, tt.path, got)
				}
			}
		})
	}
}

func TestMatchEndpoint_PrefixAndPrecedence(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/sessions/", Method: "DELETE", Limit: 30, Window: time.Minute},
		{Path: "/sessions/purge", Method: "DELETE", Limit: 2, Window: time.Hour},
	}

	// Prefix rule picks up arbitrary IDs under the tree.
	got := MatchEndpoint("/sessions/cand-1a2b3c4d", "DELETE", configs)
	if got == nil || got.Path != "/sessions/" {
		t.Fatalf("prefix match = %+v, want the /sessions/ rule", got)
	}

	// An exact rule beats a prefix rule that also covers the path,
	// regardless of rule order.
	got = MatchEndpoint("/sessions/purge", "DELETE", configs)
	if got == nil || got.Path != "/sessions/purge" {
		t.Fatalf("exact match = %+v, want the /sessions/purge rule", got)
	}

	if got := MatchEndpoint("/sessions/cand-1a2b3c4d", "GET", configs); got != nil {
		t.Fatalf("method mismatch matched %+v, want nil", got)
	}
}
