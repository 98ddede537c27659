package service

import (
	"context"
	"sync"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
)

// SessionReason explains why a session changed.
type SessionReason string

const (
	SessionSignedIn    SessionReason = "signed_in"
	SessionSignedOut   SessionReason = "signed_out"
	SessionExpired     SessionReason = "expired"
	SessionInvalidated SessionReason = "invalidated"
)

// SessionChange is one transition observed by the session cell. A nil Session
// means the session identified by SessionID is gone.
type SessionChange struct {
	SessionID string
	Session   *domainauth.Session
	Reason    SessionReason
}

// SessionCell broadcasts session transitions for every user of the process,
// in the order they happened. It keeps no session state; the guard reads
// sessions from the store. AuthService is its only writer.
type SessionCell struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]func(context.Context, SessionChange)
	order   []int

	// notifyMu serializes delivery so subscribers observe changes in order.
	notifyMu sync.Mutex
}

// NewSessionCell returns an empty cell.
func NewSessionCell() *SessionCell {
	return &SessionCell{subs: make(map[int]func(context.Context, SessionChange))}
}

// Set delivers change synchronously to every subscriber.
func (c *SessionCell) Set(ctx context.Context, change SessionChange) {
	if change.Session != nil {
		sess := *change.Session
		change.Session = &sess
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	subs := make([]func(context.Context, SessionChange), 0, len(c.order))
	for _, id := range c.order {
		subs = append(subs, c.subs[id])
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ctx, change)
	}
}

// Subscribe registers fn for future changes. The returned func removes it.
func (c *SessionCell) Subscribe(fn func(context.Context, SessionChange)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}
