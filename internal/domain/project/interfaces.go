package project

import "context"

// Store persists the whole project collection. Implementations replace the
// stored collection atomically on SaveAll.
type Store interface {
	LoadAll(ctx context.Context) ([]Project, error)
	SaveAll(ctx context.Context, projects []Project) error
}
