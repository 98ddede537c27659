package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/navix1456/recruiter-platform/internal/data/pgxutil"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

var _ ports.ObjectStore = (*ObjectRepo)(nil)

// URLSigner produces expiring relative download links.
type URLSigner interface {
	ObjectURL(bucket, key string, ttl time.Duration) string
}

// ObjectRepoOptions configures ObjectRepo.
type ObjectRepoOptions struct {
	Signer URLSigner
	// BaseURL is prepended to signed links, e.g. https://jobs.example.com.
	BaseURL string
	// MaxBytes caps a single object. Zero means unlimited.
	MaxBytes int64
}

// ObjectRepo stores résumé blobs in the resume_objects table.
type ObjectRepo struct {
	DB       *sql.DB
	signer   URLSigner
	baseURL  string
	maxBytes int64
}

// NewObjectRepo creates a new ObjectRepo.
func NewObjectRepo(db *sql.DB, opts ObjectRepoOptions) *ObjectRepo {
	return &ObjectRepo{
		DB:       db,
		signer:   opts.Signer,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		maxBytes: opts.MaxBytes,
	}
}

// Object is a stored blob.
type Object struct {
	Bucket      string    `db:"bucket"`
	Key         string    `db:"key"`
	ContentType string    `db:"content_type"`
	Size        int64     `db:"size_bytes"`
	Body        []byte    `db:"body"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *ObjectRepo) readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, apperrors.Validation("object body is required")
	}
	if r.maxBytes <= 0 {
		return io.ReadAll(body)
	}
	buf, err := io.ReadAll(io.LimitReader(body, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > r.maxBytes {
		return nil, apperrors.Validation("File is too large.")
	}
	return buf, nil
}

// Upload stores the object. Without Overwrite an existing key yields
// ports.ErrObjectExists and leaves the stored object untouched.
func (r *ObjectRepo) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	if in.Bucket == "" || in.Key == "" {
		return "", apperrors.Validation("bucket and key are required")
	}
	body, err := r.readBody(in.Body)
	if err != nil {
		return "", err
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	query := `INSERT INTO resume_objects (bucket, key, content_type, size_bytes, body) VALUES ($1, $2, $3, $4, $5)`
	if in.Overwrite {
		query += ` ON CONFLICT (bucket, key) DO UPDATE SET content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes, body = EXCLUDED.body, created_at = now()`
	}
	_, err = r.DB.ExecContext(ctx, query, in.Bucket, in.Key, contentType, int64(len(body)), body)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("upload %s/%s: %w", in.Bucket, in.Key, ports.ErrObjectExists)
		}
		return "", apperrors.MapDBError(err)
	}
	return in.Key, nil
}

// Remove deletes the given keys. Missing keys are ignored.
func (r *ObjectRepo) Remove(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resume_objects WHERE bucket = $1 AND key = ANY($2::text[])`, bucket, keys)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// SignedURL returns an absolute HMAC-signed link served by the /objects route.
func (r *ObjectRepo) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if r.signer == nil {
		return "", apperrors.Internal("object signing is not configured")
	}
	if ttl < time.Second {
		return "", apperrors.Validation("signed url ttl must be at least one second")
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM resume_objects WHERE bucket = $1 AND key = $2)`, bucket, key).Scan(&exists)
	if err != nil {
		return "", apperrors.MapDBError(err)
	}
	if !exists {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, key, ports.ErrObjectNotFound)
	}
	return r.baseURL + r.signer.ObjectURL(bucket, key, ttl), nil
}

// Get loads an object for download.
func (r *ObjectRepo) Get(ctx context.Context, bucket, key string) (*Object, error) {
	obj, err := pgxutil.QueryOne[Object](ctx, r.DB,
		`SELECT bucket, key, content_type, size_bytes, body, created_at FROM resume_objects WHERE bucket = $1 AND key = $2`,
		bucket, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get %s/%s: %w", bucket, key, ports.ErrObjectNotFound)
		}
		return nil, apperrors.MapDBError(err)
	}
	return obj, nil
}
