package mocks

import (
	"context"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// Store is a mock for project.Store.
type Store struct {
	mock.Mock
}

func (m *Store) LoadAll(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if projects, ok := args.Get(0).([]project.Project); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SaveAll(ctx context.Context, projects []project.Project) error {
	args := m.Called(ctx, projects)
	return args.Error(0)
}
