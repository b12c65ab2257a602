package storage

import (
	"multichain_swap/internal/app/port"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local port.KeyValueStore. Values never expire.
type MemoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

var _ port.KeyValueStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(key string) (string, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return "", false, nil
	}
	str, _ := v.(string)
	return str, true, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.items.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.items.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
