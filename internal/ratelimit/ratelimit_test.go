package ratelimit_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solmarket/settler/internal/cache"
	"github.com/solmarket/settler/internal/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestCheckBoundary(t *testing.T) {
	// given
	store := cache.NewMemoryStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	current := now
	limiter := ratelimit.New(store, false, testLogger(),
		ratelimit.WithNow(func() time.Time { return current }),
		ratelimit.WithPresets(map[string]int{"write": 3}),
	)

	// when N requests within the window
	for i := 0; i < 3; i++ {
		res, err := limiter.Check("user:42", "/listings", "write")
		require.NoError(t, err)
		assert.False(t, res.Limited, "request %d should not be limited", i+1)
	}

	// then the (N+1)th request is limited
	res, err := limiter.Check("user:42", "/listings", "write")
	require.NoError(t, err)
	assert.True(t, res.Limited)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	// and after the window elapses the counter resets
	current = now.Add(61 * time.Second)
	res, err = limiter.Check("user:42", "/listings", "write")
	require.NoError(t, err)
	assert.False(t, res.Limited)
}

func TestCheckIndependentIdentifiers(t *testing.T) {
	limiter := ratelimit.New(cache.NewMemoryStore(), false, testLogger(),
		ratelimit.WithPresets(map[string]int{"auth": 1}),
	)

	res, err := limiter.Check("ip:1.2.3.4", "/login", "auth")
	require.NoError(t, err)
	assert.False(t, res.Limited)

	res, err = limiter.Check("ip:5.6.7.8", "/login", "auth")
	require.NoError(t, err)
	assert.False(t, res.Limited, "a different identifier has its own budget")
}

func TestCheckUnknownPreset(t *testing.T) {
	limiter := ratelimit.New(cache.NewMemoryStore(), false, testLogger())

	res, err := limiter.Check("user:1", "/x", "bogus")
	require.ErrorIs(t, err, ratelimit.ErrUnknownPreset)
	assert.True(t, res.Limited)
}

func TestFailClosedInProduction(t *testing.T) {
	// production with no store denies every request
	limiter := ratelimit.New(nil, true, testLogger())

	res, err := limiter.Check("user:1", "/listings", "read")
	require.NoError(t, err)
	assert.True(t, res.Limited)
	assert.Equal(t, 0, res.Remaining)
}

func TestFallbackInDevelopment(t *testing.T) {
	limiter := ratelimit.New(nil, false, testLogger())

	res, err := limiter.Check("user:1", "/listings", "read")
	require.NoError(t, err)
	assert.False(t, res.Limited)
}

func TestIdentifier(t *testing.T) {
	tt := []struct {
		name       string
		userID     string
		forwarded  string
		remoteAddr string

		expected string
	}{
		{
			name:     "authenticated user wins",
			userID:   "42",
			expected: "user:42",
		},
		{
			name:       "rightmost forwarded-for entry",
			forwarded:  "203.0.113.7, 198.51.100.2, 192.0.2.1",
			remoteAddr: "10.0.0.1:443",

			expected: "ip:192.0.2.1",
		},
		{
			name:       "invalid forwarded-for falls back to remote addr",
			forwarded:  "not-an-ip",
			remoteAddr: "198.51.100.9:55000",

			expected: "ip:198.51.100.9",
		},
		{
			name:       "no forwarded-for",
			remoteAddr: "198.51.100.9:55000",

			expected: "ip:198.51.100.9",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			assert.Equal(t, tc.expected, ratelimit.Identifier(tc.userID, req))
		})
	}
}
