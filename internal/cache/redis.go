package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisStore is an implementation of Store backed by a shared Redis instance.
type RedisStore struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewRedisStore initializes a RedisStore.
func NewRedisStore(ctx context.Context, c redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: c,
		ctx:    ctx,
	}
}

// Get retrieves a value by key.
func (r *RedisStore) Get(key string) ([]byte, error) {
	result, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheNotFound
	} else if err != nil {
		return nil, errors.Join(ErrCacheFailedToGet, err)
	}
	return []byte(result), nil
}

// Set stores a value with a TTL.
func (r *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(r.ctx, key, value, ttl).Err()
	if err != nil {
		return errors.Join(ErrCacheFailedToSet, err)
	}
	return nil
}

// Del removes a value by key.
func (r *RedisStore) Del(keys ...string) error {
	result, err := r.client.Del(r.ctx, keys...).Result()
	if err != nil {
		return errors.Join(ErrCacheFailedToDel, err)
	}
	if result == 0 {
		return ErrCacheNotFound
	}
	return nil
}

// SetIfAbsent stores a value only when the key does not exist yet.
func (r *RedisStore) SetIfAbsent(key string, value []byte, ttl time.Duration) (bool, error) {
	created, err := r.client.SetNX(r.ctx, key, value, ttl).Result()
	if err != nil {
		return false, errors.Join(ErrCacheFailedToAcquire, err)
	}
	return created, nil
}

// delIfEqualsScript compares and deletes server-side so the key cannot expire
// and be re-acquired between the read and the delete.
const delIfEqualsScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// DelIfEquals deletes a key only while it still holds the given value.
func (r *RedisStore) DelIfEquals(key string, value []byte) (bool, error) {
	deleted, err := r.client.Eval(r.ctx, delIfEqualsScript, []string{key}, value).Int64()
	if err != nil {
		return false, errors.Join(ErrCacheFailedToDel, err)
	}
	return deleted > 0, nil
}

// AddToWindow records an event in a per-key sorted set scored by timestamp,
// prunes entries that fell out of the window and returns the count of entries
// remaining plus the oldest one.
func (r *RedisStore) AddToWindow(key string, at time.Time, window time.Duration) (int64, time.Time, error) {
	cutoff := at.Add(-window)
	member := fmt.Sprintf("%d-%s", at.UnixNano(), uuid.NewString())

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(r.ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	pipe.ZAdd(r.ctx, key, &redis.Z{Score: float64(at.UnixNano()), Member: member})
	countCmd := pipe.ZCard(r.ctx, key)
	oldestCmd := pipe.ZRangeWithScores(r.ctx, key, 0, 0)
	pipe.Expire(r.ctx, key, window)

	_, err := pipe.Exec(r.ctx)
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrCacheFailedToCount, err)
	}

	oldest := at
	if entries := oldestCmd.Val(); len(entries) > 0 {
		oldest = time.Unix(0, int64(entries[0].Score))
	}

	return countCmd.Val(), oldest, nil
}
