package ratelimit

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/solmarket/settler/internal/cache"
)

var (
	ErrUnknownPreset = errors.New("unknown rate limit preset")
	ErrStoreFailure  = errors.New("rate limit store failure")
)

// Default per-minute request budgets per preset.
const (
	PresetAuth   = "auth"
	PresetWrite  = "write"
	PresetSearch = "search"
	PresetRead   = "read"
	PresetStatic = "static"
)

var defaultPresets = map[string]int{
	PresetAuth:   10,
	PresetWrite:  30,
	PresetSearch: 60,
	PresetRead:   120,
	PresetStatic: 300,
}

type Result struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter bounds request volume per identifier and endpoint within a sliding
// window. When no shared store is configured it fails closed in production and
// degrades to a per-process in-memory window everywhere else.
type Limiter struct {
	store      cache.Store
	logger     *slog.Logger
	window     time.Duration
	presets    map[string]int
	production bool
	failClosed bool
	now        func() time.Time
}

func WithNow(now func() time.Time) func(*Limiter) {
	return func(l *Limiter) {
		l.now = now
	}
}

func WithPresets(presets map[string]int) func(*Limiter) {
	return func(l *Limiter) {
		if len(presets) > 0 {
			l.presets = presets
		}
	}
}

func WithWindow(window time.Duration) func(*Limiter) {
	return func(l *Limiter) {
		if window > 0 {
			l.window = window
		}
	}
}

func New(store cache.Store, production bool, logger *slog.Logger, opts ...func(*Limiter)) *Limiter {
	l := &Limiter{
		store:      store,
		logger:     logger.With(slog.String("module", "ratelimit")),
		window:     time.Minute,
		presets:    defaultPresets,
		production: production,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.store == nil {
		if production {
			// No durable shared counter in production: deny everything
			// rather than silently rate limiting per instance.
			l.failClosed = true
			l.logger.Error("no rate limit store configured in production, failing closed")
		} else {
			l.store = cache.NewMemoryStore()
			l.logger.Warn("no rate limit store configured, falling back to in-memory window")
		}
	}

	return l
}

// Check records a request for the identifier/endpoint pair and reports
// whether it exceeds the preset's budget within the sliding window.
func (l *Limiter) Check(identifier, endpoint, preset string) (Result, error) {
	limit, found := l.presets[preset]
	if !found {
		return Result{Limited: true}, errors.Join(ErrUnknownPreset, fmt.Errorf("preset: %s", preset))
	}

	now := l.now()

	if l.failClosed {
		return Result{Limited: true, Remaining: 0, ResetAt: now.Add(l.window)}, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s:%s", preset, endpoint, identifier)
	count, oldest, err := l.store.AddToWindow(key, now, l.window)
	if err != nil {
		if l.production {
			// Store unreachable: fail closed.
			return Result{Limited: true, ResetAt: now.Add(l.window)}, errors.Join(ErrStoreFailure, err)
		}
		return Result{Limited: false, Remaining: limit}, errors.Join(ErrStoreFailure, err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limited:   count > int64(limit),
		Remaining: remaining,
		ResetAt:   oldest.Add(l.window),
	}, nil
}

// Identifier resolves the subject a request is counted against. An
// authenticated user id wins; otherwise the client IP is derived from the
// forwarded-for chain, taking the rightmost address so that client-supplied
// entries prepended to the header cannot spoof the identity.
func Identifier(userID string, r *http.Request) string {
	if userID != "" {
		return "user:" + userID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		candidate := strings.TrimSpace(parts[len(parts)-1])
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
