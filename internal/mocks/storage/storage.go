// Package storage contains an in-memory ObjectStore for unit tests.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/navix1456/recruiter-platform/internal/ports"
)

var _ ports.ObjectStore = (*MemoryObjectStore)(nil)

// MemoryObjectStore keeps objects in a map keyed by bucket/key and records calls.
type MemoryObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// UploadErr and RemoveErr, when set, are returned instead of performing the call.
	UploadErr error
	RemoveErr error

	RemoveCalls [][]string
}

// NewMemoryObjectStore creates an empty store.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{objects: make(map[string][]byte)}
}

func objectID(bucket, key string) string { return bucket + "/" + key }

func (s *MemoryObjectStore) Upload(_ context.Context, in ports.UploadInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	id := objectID(in.Bucket, in.Key)
	if _, exists := s.objects[id]; exists && !in.Overwrite {
		return "", ports.ErrObjectExists
	}
	var buf bytes.Buffer
	if in.Body != nil {
		if _, err := io.Copy(&buf, in.Body); err != nil {
			return "", err
		}
	}
	s.objects[id] = buf.Bytes()
	return in.Key, nil
}

func (s *MemoryObjectStore) Remove(_ context.Context, bucket string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RemoveCalls = append(s.RemoveCalls, append([]string(nil), keys...))
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	for _, k := range keys {
		delete(s.objects, objectID(bucket, k))
	}
	return nil
}

func (s *MemoryObjectStore) SignedURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectID(bucket, key)]; !ok {
		return "", ports.ErrObjectNotFound
	}
	return fmt.Sprintf("https://storage.test/%s/%s?ttl=%d", bucket, key, int(ttl.Seconds())), nil
}

// Put stores an object directly, bypassing Upload.
func (s *MemoryObjectStore) Put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectID(bucket, key)] = data
}

// Has reports whether an object exists.
func (s *MemoryObjectStore) Has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectID(bucket, key)]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
