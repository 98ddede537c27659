package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.Locker = (*Locker)(nil)

// releaseScript deletes the lock only if it still holds our token, so a
// holder whose TTL lapsed cannot release a newer claim.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements ports.Locker with SET NX PX.
type Locker struct {
	client redis.UniversalClient
	prefix string
}

// NewLocker creates a Locker whose keys are namespaced under prefix.
func NewLocker(client redis.UniversalClient, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// TryLock claims key for ttl.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Release must not depend on the request context, which may already be done.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{fullKey}, token).Err()
	}
	return release, true, nil
}
