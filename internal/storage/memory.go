package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory keeps values in process memory. It backs tests and the "memory"
// backend, where nothing should outlive the process.
type Memory struct {
	opts    options
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory returns an empty in-memory adapter.
func NewMemory(opts ...Option) *Memory {
	return &Memory{opts: buildOptions(opts), entries: make(map[string]memoryEntry)}
}

func (m *Memory) Read(ctx context.Context, key string) (string, bool, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if m.opts.expired(entry.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return err
	}
	if err := m.opts.checkValue(key, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.opts.expiry(ttl)}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Keys lists live keys. Intended for diagnostics and tests.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for key, entry := range m.entries {
		if m.opts.expired(entry.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func (m *Memory) Close() error { return nil }
