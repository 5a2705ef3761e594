package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrQuotaExceeded reports a value larger than the adapter accepts.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable reports that the backing store could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInvalidKey reports an empty or unusable key.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Adapter is the persistence contract consumed by the clip library.
type Adapter interface {
	// Read returns the stored value and true, or false when the key is absent
	// or expired.
	Read(ctx context.Context, key string) (string, bool, error)
	// Write stores value under key. A non-positive ttl never expires.
	Write(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Option tunes adapter construction.
type Option func(*options)

type options struct {
	maxValueBytes int
	now           func() time.Time
}

// WithMaxValueBytes caps the size of a single stored value. Zero disables the cap.
func WithMaxValueBytes(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxValueBytes = n
		}
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) checkValue(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if o.maxValueBytes > 0 && len(value) > o.maxValueBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrQuotaExceeded, key, len(value), o.maxValueBytes)
	}
	return nil
}

func (o options) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return o.now().Add(ttl)
}

func (o options) expired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && !o.now().Before(expiresAt)
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, op, key, err)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
