package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-reviewer/internal/config"
)

// newTestLimiter returns a limiter with no cleanup goroutine and a controllable clock.
func newTestLimiter(cfg *Config, now *time.Time) *Limiter {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 600, DefaultWindow: time.Minute, EndpointConfigs: DefaultEndpointConfigs()}, &now)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("10.0.0.1", "/analyze", "POST")
		require.True(t, allowed, "request %d within burst", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/analyze", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Second, info.RetryAfter, "60/min refills one token per second")
	assert.True(t, info.ResetTime.After(now))
}

func TestLimiter_Refill(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 600, DefaultWindow: time.Minute, EndpointConfigs: DefaultEndpointConfigs()}, &now)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.Allow("10.0.0.1", "/fetch-jd", "POST")
	}
	allowed, _ := l.Allow("10.0.0.1", "/fetch-jd", "POST")
	require.False(t, allowed)

	// 20/min refills one token every three seconds
	now = now.Add(4 * time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/fetch-jd", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/fetch-jd", "POST")
	assert.False(t, allowed)
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 600, DefaultWindow: time.Minute, EndpointConfigs: DefaultEndpointConfigs()}, &now)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.Allow("a", "/fetch-jd", "POST")
	}
	denied, _ := l.Allow("a", "/fetch-jd", "POST")
	assert.False(t, denied)

	otherClient, _ := l.Allow("b", "/fetch-jd", "POST")
	otherRoute, _ := l.Allow("a", "/check", "POST")
	assert.True(t, otherClient)
	assert.True(t, otherRoute)
}

func TestLimiter_Lists(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{"trusted": true},
		Blacklist:       map[string]bool{"banned": true},
		EndpointConfigs: DefaultEndpointConfigs(),
	}, &now)
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("trusted", "/analyze", "POST")
		require.True(t, allowed)
	}

	allowed, info := l.Allow("banned", "/health", "GET")
	assert.False(t, allowed)
	assert.Zero(t, info.Limit)
}

func TestLimiter_DisabledAndUnlimited(t *testing.T) {
	disabled := NewLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	allowed, _ := disabled.Allow("x", "/analyze", "POST")
	assert.True(t, allowed)

	now := time.Now()
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute}, &now)
	defer l.Stop()
	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("x", "/health", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute}, &now)
	defer l.Stop()

	first, _ := l.Allow("x", "/unknown", "GET")
	second, _ := l.Allow("x", "/unknown", "GET")
	third, info := l.Allow("x", "/unknown", "GET")
	assert.True(t, first)
	assert.True(t, second)
	assert.False(t, third)
	assert.Equal(t, 2, info.Limit)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute}, &now)
	defer l.Stop()

	l.Allow("old", "/x", "GET")
	now = now.Add(2 * time.Hour)
	l.Allow("new", "/x", "GET")

	l.cleanupBuckets(now.Add(-idleTTL))
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "new:/x:GET")
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Hour})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ok, _ := l.Allow(fmt.Sprintf("client-%d", id%2), "/x", "GET"); ok {
					mu.Lock()
					allowedCount++
					mu.Unlock()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2000, allowedCount, "two clients with a 1000 burst each")
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := append(DefaultEndpointConfigs(), EndpointConfig{Path: "/reports/", Method: "GET", Limit: 5, Window: time.Minute})

	tests := []struct {
		name, path, method string
		wantLimit          int
		wantNil            bool
	}{
		{"Exact", "/analyze", "POST", 60, false},
		{"Method mismatch", "/analyze", "GET", 0, true},
		{"Prefix", "/reports/42", "GET", 5, false},
		{"Health", "/health", "GET", 0, false},
		{"No match", "/nope", "POST", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.RateLimitConfig{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		CleanupInterval: time.Minute,
		Whitelist:       []string{" 10.0.0.1 ", ""},
		Blacklist:       []string{"10.0.0.2"},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, cfg.Whitelist)
	assert.True(t, cfg.Blacklist["10.0.0.2"])
	assert.Len(t, cfg.EndpointConfigs, 4)

	assert.False(t, FromSettings(config.RateLimitConfig{}).Enabled)
}
