package project

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service runs engine operations as serialized read-modify-write cycles
// against the Store.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu sync.Mutex
}

// NewService creates a new project service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
}

// List returns every project in display order.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := projectIndex(projects, id)
	if i < 0 {
		return nil, projectNotFound(id)
	}
	return &projects[i], nil
}

// CreateProject creates a new project and appends it to the collection.
func (s *Service) CreateProject(ctx context.Context, req CreateRequest) (*Project, error) {
	proj, err := NewProject(s.newID(), req.Name, req.Description, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	projects = append(projects, *proj)
	if err := s.save(ctx, projects); err != nil {
		return nil, err
	}

	s.logger.Debug("project created", "project_id", proj.ID, "name", proj.Name)
	return proj.Clone(), nil
}

// UpdateProject applies a partial update to a project.
func (s *Service) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*Project, error) {
	return s.mutate(ctx, "update project", id, func(p *Project) error {
		return p.Apply(patch)
	})
}

// DeleteProject removes a project and all of its counters in one write.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := projectIndex(projects, id)
	if i < 0 {
		return projectNotFound(id)
	}
	if err := s.save(ctx, slices.Delete(projects, i, i+1)); err != nil {
		return err
	}

	s.logger.Debug("project deleted", "project_id", id)
	return nil
}

// CreateCounter validates and appends a counter to a project.
func (s *Service) CreateCounter(ctx context.Context, projectID string, req CreateCounterRequest) (*Counter, error) {
	var created Counter
	_, err := s.mutate(ctx, "create counter", projectID, func(p *Project) error {
		c, err := p.AddCounter(s.newID(), req)
		if err != nil {
			return err
		}
		created = c.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCounter applies a partial update to a counter and re-clamps its value.
func (s *Service) UpdateCounter(ctx context.Context, projectID, counterID string, patch CounterPatch) (*Counter, error) {
	var updated Counter
	_, err := s.mutate(ctx, "update counter", projectID, func(p *Project) error {
		c, err := p.UpdateCounter(counterID, patch)
		if err != nil {
			return err
		}
		updated = c.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCounter removes a counter from a project.
func (s *Service) DeleteCounter(ctx context.Context, projectID, counterID string) (*Project, error) {
	return s.mutate(ctx, "delete counter", projectID, func(p *Project) error {
		return p.RemoveCounter(counterID)
	})
}

// IncrementCounter advances a counter and cascades to its direct children.
// When the increment is rejected with an InvalidOperationError the result
// still carries the unchanged project, read under the same lock.
func (s *Service) IncrementCounter(ctx context.Context, projectID, counterID string) (*IncrementResult, error) {
	var triggered []string
	proj, err := s.mutate(ctx, "increment counter", projectID, func(p *Project) error {
		var err error
		triggered, err = p.Increment(counterID)
		return err
	})
	if err != nil {
		if proj != nil {
			return &IncrementResult{Project: proj, TriggeredCounterIDs: []string{}}, err
		}
		return nil, err
	}
	if len(triggered) > 0 {
		s.logger.Debug("linked counters triggered", "project_id", projectID, "counter_id", counterID, "triggered", triggered)
	}
	return &IncrementResult{Project: proj, TriggeredCounterIDs: triggered}, nil
}

// DecrementCounter moves a counter down by its step. Like IncrementCounter,
// a rejection returns the unchanged project alongside the error.
func (s *Service) DecrementCounter(ctx context.Context, projectID, counterID string) (*Project, error) {
	return s.mutate(ctx, "decrement counter", projectID, func(p *Project) error {
		return p.Decrement(counterID)
	})
}

// ResetCounter returns a counter and its direct children to their floors.
func (s *Service) ResetCounter(ctx context.Context, projectID, counterID string) (*Project, error) {
	return s.mutate(ctx, "reset counter", projectID, func(p *Project) error {
		return p.Reset(counterID)
	})
}

// mutate loads the collection, applies fn to one project and saves. Nothing
// is written when fn fails. A rejected counter operation also returns a copy
// of the project as loaded.
func (s *Service) mutate(ctx context.Context, op, projectID string, fn func(p *Project) error) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := projectIndex(projects, projectID)
	if i < 0 {
		return nil, projectNotFound(projectID)
	}

	proj := &projects[i]
	if err := fn(proj); err != nil {
		var rejected *InvalidOperationError
		if errors.As(err, &rejected) {
			s.logger.Debug("counter operation rejected", "op", op, "project_id", projectID, "counter_id", rejected.CounterID, "reason", rejected.Reason)
			return proj.Clone(), err
		}
		return nil, err
	}
	if err := s.save(ctx, projects); err != nil {
		return nil, err
	}

	s.logger.Debug("project updated", "op", op, "project_id", projectID)
	return proj.Clone(), nil
}

func (s *Service) load(ctx context.Context) ([]Project, error) {
	projects, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Error("failed to load projects", "error", err)
		return nil, &StorageError{Op: "load", Err: err}
	}
	return projects, nil
}

func (s *Service) save(ctx context.Context, projects []Project) error {
	if err := s.store.SaveAll(ctx, projects); err != nil {
		s.logger.Error("failed to save projects", "error", err)
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func projectIndex(projects []Project, id string) int {
	return slices.IndexFunc(projects, func(p Project) bool { return p.ID == id })
}
