package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrObjectExists is returned by Upload when the key is taken and overwrite is off.
	ErrObjectExists = errors.New("object already exists")
	// ErrObjectNotFound is returned when a key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

// UploadInput describes a single object write.
type UploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
	// Size is the body length in bytes when known, or -1.
	Size int64
	// Overwrite replaces an existing object instead of failing with ErrObjectExists.
	Overwrite bool
}

// ObjectStore is the remote blob storage capability.
type ObjectStore interface {
	// Upload writes the object and returns the stored key.
	Upload(ctx context.Context, in UploadInput) (string, error)
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, bucket string, keys []string) error
	// SignedURL returns a download link for key that stops working after ttl.
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
