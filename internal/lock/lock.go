package lock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/solmarket/settler/internal/cache"
)

var ErrLockStoreFailure = errors.New("lock store failure")

const keyPrefix = "cron-lock:"

// Locker provides named mutual exclusion across process instances so that
// only one holder runs a given scheduled job at a time. Locks carry a TTL so
// a crashed holder cannot block a job forever.
type Locker struct {
	store  cache.Store
	logger *slog.Logger
	ttl    time.Duration
	holder string
}

func WithTTL(ttl time.Duration) func(*Locker) {
	return func(l *Locker) {
		l.ttl = ttl
	}
}

func New(store cache.Store, logger *slog.Logger, opts ...func(*Locker)) *Locker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	l := &Locker{
		store:  store,
		logger: logger.With(slog.String("module", "lock")),
		ttl:    15 * time.Minute,
		holder: fmt.Sprintf("%s-%s", hostname, uuid.NewString()),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Acquire attempts to take the named lock. ok=false means another holder is
// live, which callers treat as a normal "still running" skip, not an error.
// The returned release func is safe to call in a deferred cleanup regardless
// of how the job ended.
func (l *Locker) Acquire(name string) (release func(), ok bool, err error) {
	key := keyPrefix + name

	created, err := l.store.SetIfAbsent(key, []byte(l.holder), l.ttl)
	if err != nil {
		return nil, false, errors.Join(ErrLockStoreFailure, err)
	}
	if !created {
		l.logger.Info("lock already held", slog.String("name", name))
		return nil, false, nil
	}

	release = func() {
		// Compare-and-delete in one step. A lock that expired and was
		// re-acquired elsewhere must be left alone.
		deleted, err := l.store.DelIfEquals(key, []byte(l.holder))
		if err != nil {
			l.logger.Error("failed to release lock", slog.String("name", name), slog.String("err", err.Error()))
			return
		}
		if !deleted {
			l.logger.Warn("lock expired before release", slog.String("name", name))
		}
	}

	return release, true, nil
}
