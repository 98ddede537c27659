package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

const storagePrefix = "/storage/v1"

var _ ports.ObjectStore = (*Storage)(nil)

// Storage implements ports.ObjectStore with the Supabase Storage API.
type Storage struct {
	c *Client
}

// NewStorage creates a new Storage.
func NewStorage(c *Client) *Storage {
	return &Storage{c: c}
}

// escapeKey escapes each path segment of an object key.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func (s *Storage) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	if in.Bucket == "" || in.Key == "" {
		return "", apperrors.Validation("bucket and key are required")
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := s.c.do(ctx, request{
		method:      http.MethodPost,
		path:        storagePrefix + "/object/" + url.PathEscape(in.Bucket) + "/" + escapeKey(in.Key),
		body:        in.Body,
		contentType: contentType,
		size:        in.Size,
		headers: map[string]string{
			"x-upsert":      strconv.FormatBool(in.Overwrite),
			"cache-control": "3600",
		},
	}, nil)
	if err != nil {
		if isDuplicate(err) {
			return "", fmt.Errorf("upload %s/%s: %w", in.Bucket, in.Key, ports.ErrObjectExists)
		}
		return "", mapStorageError(err)
	}
	return in.Key, nil
}

func (s *Storage) Remove(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.c.do(ctx, request{
		method:   http.MethodDelete,
		path:     storagePrefix + "/object/" + url.PathEscape(bucket),
		jsonBody: map[string][]string{"prefixes": keys},
	}, nil)
	if err != nil {
		return mapStorageError(err)
	}
	return nil
}

func (s *Storage) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	secs := int(ttl / time.Second)
	if secs <= 0 {
		return "", apperrors.Validation("signed url ttl must be at least one second")
	}
	var out struct {
		SignedURL string `json:"signedURL"`
	}
	err := s.c.do(ctx, request{
		method:   http.MethodPost,
		path:     storagePrefix + "/object/sign/" + url.PathEscape(bucket) + "/" + escapeKey(key),
		jsonBody: map[string]int{"expiresIn": secs},
	}, &out)
	if err != nil {
		return "", mapStorageError(err)
	}
	switch {
	case out.SignedURL == "":
		return "", apperrors.Remote("Storage did not return a signed URL")
	case strings.HasPrefix(out.SignedURL, "http://"), strings.HasPrefix(out.SignedURL, "https://"):
		return out.SignedURL, nil
	default:
		return s.c.BaseURL() + storagePrefix + out.SignedURL, nil
	}
}

// isDuplicate recognizes the storage "already exists" answer, which arrives
// either as HTTP 409 or as a 400 whose body carries statusCode "409".
func isDuplicate(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusConflict || apiErr.Code == "409" {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "already exists")
}

func mapStorageError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Status == http.StatusNotFound || apiErr.Code == "404" {
		return fmt.Errorf("%s: %w", apiErr.Message, ports.ErrObjectNotFound)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeRemote, apiErr.Message)
}
