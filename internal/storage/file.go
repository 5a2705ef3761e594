package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"clipmark/internal/fileutil"
)

// fileRecord is the on-disk document for a single key.
type fileRecord struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// File stores one JSON document per key beneath a directory. Writes are
// atomic (temp file plus rename) and serialized across processes with an
// advisory lock on the directory.
type File struct {
	dir  string
	opts options
	// mu serializes use of lock, which is not safe for concurrent callers.
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFile prepares dir and returns an adapter rooted there.
func NewFile(dir string, opts ...Option) (*File, error) {
	if dir == "" {
		return nil, errors.New("file storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: create %s: %w", dir, err)
	}
	return &File{
		dir:  dir,
		opts: buildOptions(opts),
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the directory holding the records.
func (f *File) Dir() string { return f.dir }

func (f *File) Read(ctx context.Context, key string) (string, bool, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return "", false, err
	}
	path, err := f.pathFor(key)
	if err != nil {
		return "", false, err
	}
	f.mu.Lock()
	if err := f.lock.RLock(); err != nil {
		f.mu.Unlock()
		return "", false, unavailable("lock", key, err)
	}
	data, err := os.ReadFile(path)
	_ = f.lock.Unlock()
	f.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("read", key, err)
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return "", false, fmt.Errorf("file storage: decode %s: %w", key, err)
	}
	if f.opts.expired(record.ExpiresAt) {
		_ = f.Delete(ctx, key)
		return "", false, nil
	}
	return record.Value, true, nil
}

func (f *File) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return err
	}
	if err := f.opts.checkValue(key, value); err != nil {
		return err
	}
	path, err := f.pathFor(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fileRecord{Key: key, Value: value, ExpiresAt: f.opts.expiry(ttl)})
	if err != nil {
		return fmt.Errorf("file storage: encode %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return unavailable("lock", key, err)
	}
	defer func() { _ = f.lock.Unlock() }()
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return unavailable("write", key, err)
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return err
	}
	path, err := f.pathFor(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return unavailable("lock", key, err)
	}
	defer func() { _ = f.lock.Unlock() }()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("delete", key, err)
	}
	return nil
}

func (f *File) Close() error {
	return f.lock.Close()
}

func (f *File) pathFor(key string) (string, error) {
	name := url.PathEscape(key)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, name+".json"), nil
}
