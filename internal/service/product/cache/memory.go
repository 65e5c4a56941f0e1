package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore 프로세스 메모리 기반 저장소
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 메모리 저장소를 생성합니다.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := newOptions(opts)
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     o.now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.Expired(s.now()) {
		return nil, false, nil
	}
	return append([]byte(nil), e.Value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := Entry{
		Key:       key,
		Value:     append([]byte(nil), value...),
		ExpiresAt: s.now().Add(ttl),
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	now := s.now()
	stats := Stats{Backend: BackendMemory}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Expired(now) {
			continue
		}
		stats.Entries++
		stats.Bytes += int64(len(e.Value))
	}
	return stats, nil
}

func (s *MemoryStore) Purge(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for k, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
