package cache

import (
	"errors"
	"time"
)

var (
	ErrCacheNotFound          = errors.New("key not found in cache")
	ErrCacheFailedToSet       = errors.New("failed to set value in cache")
	ErrCacheFailedToDel       = errors.New("failed to delete value from cache")
	ErrCacheFailedToGet       = errors.New("failed to get value from cache")
	ErrCacheFailedToAcquire   = errors.New("failed to acquire key in cache")
	ErrCacheFailedToCount     = errors.New("failed to count window events in cache")
)

// Store is a shared key-value store with the two primitives the service
// depends on beyond plain get/set: acquire-if-absent for distributed locks and
// a sliding-window event counter for rate limiting.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Del(keys ...string) error

	// SetIfAbsent stores value under key only when the key does not exist yet.
	// It returns true when this call created the key.
	SetIfAbsent(key string, value []byte, ttl time.Duration) (bool, error)

	// DelIfEquals deletes key only while it still holds the given value, as a
	// single atomic step. It returns true when the key was deleted.
	DelIfEquals(key string, value []byte) (bool, error)

	// AddToWindow records an event at the given time and returns the number of
	// events within the trailing window, including this one, together with the
	// oldest event still inside the window.
	AddToWindow(key string, at time.Time, window time.Duration) (count int64, oldest time.Time, err error)
}
