package service

import (
	"context"
	"sync"
	"time"

	"github.com/navix1456/recruiter-platform/internal/ports"
)

var _ ports.Locker = (*MemoryLocker)(nil)

// MemoryLocker is a process-local ports.Locker used when Redis is not configured.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryClaim
	seq   uint64
	clock func() time.Time
}

type memoryClaim struct {
	token   uint64
	expires time.Time
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryClaim), clock: time.Now}
}

// TryLock claims key for ttl unless another unexpired claim holds it.
func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if c, ok := l.held[key]; ok && now.Before(c.expires) {
		return nil, false, nil
	}
	l.seq++
	token := l.seq
	l.held[key] = memoryClaim{token: token, expires: now.Add(ttl)}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if c, ok := l.held[key]; ok && c.token == token {
				delete(l.held, key)
			}
		})
	}
	return release, true, nil
}
