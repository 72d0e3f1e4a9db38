package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionLock is an advisory SETNX lock per session id. The TTL guards
// against a crashed holder; release only deletes the key when the token still
// matches, so an expired lock taken over by another writer is not stolen back.
type RedisSessionLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionLock(rdb *redis.Client, ttl time.Duration) *RedisSessionLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisSessionLock{rdb: rdb, ttl: ttl}
}

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

func (l *RedisSessionLock) Acquire(ctx context.Context, sessionID string) (func(), bool, error) {
	key := "interview:lock:" + sessionID
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		_ = l.rdb.Eval(context.Background(), releaseScript, []string{key}, token).Err()
	}
	return release, true, nil
}
