package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrSaveFailed is returned by MemoryStore.Save while failures are enabled.
var ErrSaveFailed = errors.New("save failed")

// MemoryStore keeps encoded documents in memory. Documents are stored as
// JSON so Load returns an independent copy, like the durable stores.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string][]byte
	saves    map[string]int
	failSave bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string][]byte),
		saves: make(map[string]int),
	}
}

func (s *MemoryStore) Load(_ context.Context, name string, v any) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	s.mu.Lock()
	data, ok := s.docs[name]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (s *MemoryStore) Save(_ context.Context, name string, v any) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return ErrSaveFailed
	}
	s.docs[name] = data
	s.saves[name]++
	return nil
}

// FailSaves makes every following Save return ErrSaveFailed until reset.
func (s *MemoryStore) FailSaves(fail bool) {
	s.mu.Lock()
	s.failSave = fail
	s.mu.Unlock()
}

// SaveCount reports how many successful saves the named document received.
func (s *MemoryStore) SaveCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[name]
}

// Raw returns the stored JSON of the named document.
func (s *MemoryStore) Raw(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	return data, ok
}
