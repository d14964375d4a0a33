package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, key string, dst any) (bool, error) {
	if sessionID == "" {
		return false, ErrSessionRequired
	}
	s.mu.RLock()
	entry, ok := s.data[sessionID][key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.data[sessionID], key)
		s.mu.Unlock()
		return false, nil
	}
	if err := decode(entry.value, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, key string, value any) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[sessionID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		s.data[sessionID] = bucket
	}
	bucket[key] = memoryEntry{value: raw, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keysOrAll(keys) {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.data, sessionID)
	}
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
