package redis

// Package redis provides Redis-based adapters: server-side sessions and the
// submission lock.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps recruiter sessions in Redis as JSON. Keys expire with
// the session's ExpiresAt, so the backend's access token never outlives it.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found. It matches
// ports.ErrNoSession under errors.Is.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

func (notFoundError) Unwrap() error { return ports.ErrNoSession }

var ErrNotFound error = notFoundError{}

// StoredSession is a session together with its remaining key lifetime.
type StoredSession struct {
	Session domainauth.Session
	TTL     time.Duration
}

const scanBatch = 500

// List returns up to limit sessions, optionally only those for userID.
// A limit of zero means no limit. Undecodable entries are skipped.
func (s *SessionStore) List(ctx context.Context, userID string, limit int) ([]StoredSession, error) {
	var out []StoredSession
	err := s.scan(ctx, func(key string, sess domainauth.Session) (bool, error) {
		if userID != "" && sess.UserID != userID {
			return true, nil
		}
		ttl, err := s.client.TTL(ctx, key).Result()
		if err != nil {
			return false, fmt.Errorf("redis ttl %q: %w", key, err)
		}
		out = append(out, StoredSession{Session: sess, TTL: ttl})
		return limit <= 0 || len(out) < limit, nil
	})
	return out, err
}

// Purge deletes every session, or only those for userID, and reports how
// many were removed. Purged recruiters must sign in again.
func (s *SessionStore) Purge(ctx context.Context, userID string) (int, error) {
	var keys []string
	err := s.scan(ctx, func(key string, sess domainauth.Session) (bool, error) {
		if userID == "" || sess.UserID == userID {
			keys = append(keys, key)
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		n, err := s.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

// scan walks session keys under the prefix until fn returns false.
func (s *SessionStore) scan(ctx context.Context, fn func(key string, sess domainauth.Session) (bool, error)) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("redis get %q: %w", key, err)
		}
		var sess domainauth.Session
		if json.Unmarshal(data, &sess) != nil {
			continue
		}
		more, err := fn(key, sess)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}
