package repository

import (
	"context"
	"sync"

	"github.com/ganot/stitchcounter/internal/domain/project"
)

// MemoryStore keeps the serialized collection in process memory. Every load
// decodes a fresh copy, so callers never share state with the store.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadAll decodes the stored collection.
func (s *MemoryStore) LoadAll(ctx context.Context) ([]project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DecodeProjects(s.data)
}

// SaveAll replaces the stored collection.
func (s *MemoryStore) SaveAll(ctx context.Context, projects []project.Project) error {
	data, err := EncodeProjects(projects)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
