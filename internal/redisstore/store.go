// Package redisstore keeps the serialized project collection under one Redis key.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/ganot/stitchcounter/internal/repository"
)

// DefaultKey is the Redis key holding the project collection.
const DefaultKey = "stitchcounter:projects"

// Store implements project.Store on a Redis string value.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a Store. An empty key falls back to DefaultKey.
func New(client *redis.Client, key string) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// LoadAll reads the collection. A missing key is an empty collection.
func (s *Store) LoadAll(ctx context.Context) ([]project.Project, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []project.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return repository.DecodeProjects(data)
}

// SaveAll replaces the collection with a single SET.
func (s *Store) SaveAll(ctx context.Context, projects []project.Project) error {
	data, err := repository.EncodeProjects(projects)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
