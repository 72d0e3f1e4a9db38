package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionLocker serializes writers per session id. The dialogue engine is a
// sequential read-modify-write; a second concurrent writer for the same
// session must be rejected, not interleaved.
type SessionLocker interface {
	// Acquire returns a release func, or ok=false when the session is
	// already locked by another writer.
	Acquire(ctx context.Context, sessionID string) (release func(), ok bool, err error)
}
