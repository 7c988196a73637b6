package sessionstore

import (
	"catering-quote/core/order"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore is the single-process store used by `dev` and tests. Sessions
// are kept encoded so callers never share maps with the store.
type MemoryStore struct {
	TTL     time.Duration
	TimeNow func() time.Time

	mu       sync.Mutex
	sessions map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		TTL:      ttl,
		TimeNow:  time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*order.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if m.TTL > 0 && !m.TimeNow().Before(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return decode(entry.raw)
}

func (m *MemoryStore) Save(ctx context.Context, s *order.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = memoryEntry{raw: raw, expiresAt: m.TimeNow().Add(m.TTL)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}
