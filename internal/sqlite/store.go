package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/ganot/stitchcounter/internal/repository"
)

// DefaultKey is the row key holding the project collection.
const DefaultKey = "stitchcounter_projects"

// ProjectStore implements project.Store on a single kv_store row
type ProjectStore struct {
	db  *DB
	key string
}

// NewProjectStore creates a new ProjectStore using DefaultKey
func NewProjectStore(db *DB) *ProjectStore {
	return NewProjectStoreWithKey(db, DefaultKey)
}

// NewProjectStoreWithKey creates a ProjectStore on a custom row key
func NewProjectStoreWithKey(db *DB, key string) *ProjectStore {
	return &ProjectStore{db: db, key: key}
}

// LoadAll reads and decodes the collection. A missing row is an empty collection.
func (s *ProjectStore) LoadAll(ctx context.Context) ([]project.Project, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []project.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return repository.DecodeProjects(data)
}

// SaveAll replaces the collection row inside a transaction
func (s *ProjectStore) SaveAll(ctx context.Context, projects []project.Project) error {
	data, err := repository.EncodeProjects(projects)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, s.key, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
