// Package urlsign issues and checks HMAC-SHA256 signatures for the self-hosted
// backend: expiring résumé download links and opaque recruiter access tokens.
package urlsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidSignature is returned when a signature does not match.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrExpired is returned when a signed value is past its expiry.
	ErrExpired = errors.New("signature expired")
)

const minSecretLen = 16

// Signer signs values with a shared secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// New returns a Signer. The secret must be at least 16 bytes.
func New(secret []byte) (*Signer, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}
	return &Signer{secret: append([]byte(nil), secret...), now: time.Now}, nil
}

func (s *Signer) mac(parts ...string) []byte {
	h := hmac.New(sha256.New, s.secret)
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return h.Sum(nil)
}

// ObjectURL returns a relative download link for bucket/key that is valid for ttl.
// The link has the form /objects/{bucket}/{key}?exp=&sig=.
func (s *Signer) ObjectURL(bucket, key string, ttl time.Duration) string {
	exp := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)
	sig := hex.EncodeToString(s.mac("object", bucket, key, exp))

	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	q := url.Values{"exp": {exp}, "sig": {sig}}
	return "/objects/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/") + "?" + q.Encode()
}

// VerifyObject checks the exp and sig query values of a download link.
func (s *Signer) VerifyObject(bucket, key, exp, sig string) error {
	want, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(want, s.mac("object", bucket, key, exp)) {
		return ErrInvalidSignature
	}
	return s.checkExpiry(exp)
}

// Token returns an opaque token binding subject until exp.
func (s *Signer) Token(subject string, exp time.Time) string {
	expStr := strconv.FormatInt(exp.Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject + "|" + expStr))
	sig := base64.RawURLEncoding.EncodeToString(s.mac("token", subject, expStr))
	return payload + "." + sig
}

// ParseToken verifies a token produced by Token and returns its subject and expiry.
func (s *Signer) ParseToken(token string) (string, time.Time, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return "", time.Time{}, ErrInvalidSignature
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return "", time.Time{}, ErrInvalidSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return "", time.Time{}, ErrInvalidSignature
	}
	subject, expStr, ok := strings.Cut(string(payload), "|")
	if !ok || subject == "" {
		return "", time.Time{}, ErrInvalidSignature
	}
	if !hmac.Equal(sig, s.mac("token", subject, expStr)) {
		return "", time.Time{}, ErrInvalidSignature
	}
	if err := s.checkExpiry(expStr); err != nil {
		return "", time.Time{}, err
	}
	unix, _ := strconv.ParseInt(expStr, 10, 64)
	return subject, time.Unix(unix, 0), nil
}

func (s *Signer) checkExpiry(exp string) error {
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if !s.now().Before(time.Unix(unix, 0)) {
		return ErrExpired
	}
	return nil
}
