package ports

import (
	"context"
	"time"
)

// Locker grants short-lived exclusive claims on a key. It backs the
// double-submit guard for application submissions.
type Locker interface {
	// TryLock claims key for ttl. It returns false, without error, when the
	// key is already held. The returned release func is safe to call once.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}
