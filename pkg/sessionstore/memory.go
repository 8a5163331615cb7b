package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type memoryEntry struct {
	values    map[string]any
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for expiry.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval
// starts a goroutine removing expired entries; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Load returns a copy of the values stored under id.
func (m *MemoryStore) Load(ctx context.Context, id string) (*session.Data, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	m.mu.RLock()
	entry, exists := m.entries[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	return session.NewDataFrom(entry.values)
}

// Save stores a normalized copy of values.
func (m *MemoryStore) Save(ctx context.Context, id string, values map[string]any, ttl time.Duration) error {
	if id == "" {
		return ErrInvalidID
	}

	data, err := session.NewDataFrom(values)
	if err != nil {
		return err
	}

	entry := memoryEntry{values: data.Values()}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[id] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// DeleteExpired removes all expired entries.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, id)
		}
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
