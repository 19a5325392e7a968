package storage

import (
	"context"
	"sync"
)

type MemoryStorage struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	saves map[string]int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		docs:  make(map[string][]byte),
		saves: make(map[string]int),
	}
}

func (s *MemoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[key]
	if !exists {
		return nil, ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *MemoryStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = append([]byte(nil), data...)
	s.saves[key]++
	return nil
}

// Saves reports how many times key has been written
func (s *MemoryStorage) Saves(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves[key]
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
