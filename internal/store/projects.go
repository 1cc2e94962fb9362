package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
)

// ProjectsAPI is the slice of the remote API the project store needs.
type ProjectsAPI interface {
	ListProjects(ctx context.Context, q api.ProjectQuery) (*domain.ProjectPage, error)
	CreateProject(ctx context.Context, in api.CreateProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in api.UpdateProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) (*domain.Project, error)
	ProjectStats(ctx context.Context) (*domain.ProjectStats, error)
}

// Projects is the paginated project collection. Deletion is soft: the API
// flips the status to DELETED and the store drops the entry from the page.
type Projects struct {
	api ProjectsAPI
	log zerolog.Logger

	mu         sync.Mutex
	items      []domain.Project
	pagination *domain.Pagination
	loading    bool
	errMsg     string
}

// NewProjects creates an empty project store.
func NewProjects(projectsAPI ProjectsAPI, log zerolog.Logger) *Projects {
	return &Projects{api: projectsAPI, log: log}
}

// List fetches one page and replaces the collection wholesale.
func (s *Projects) List(ctx context.Context, q api.ProjectQuery) (*domain.ProjectPage, error) {
	s.begin()
	page, err := s.api.ListProjects(ctx, q)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = apierr.Message(err)
		return nil, err
	}
	s.items = page.Items
	s.pagination = &page.Pagination
	return page, nil
}

// Create creates a project and prepends it to the current page without
// re-fetching. Pagination counters are not renumbered.
func (s *Projects) Create(ctx context.Context, in api.CreateProjectInput) (*domain.Project, error) {
	s.begin()
	created, err := s.api.CreateProject(ctx, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = apierr.Message(err)
		return nil, err
	}
	s.items = append([]domain.Project{*created}, s.items...)
	return created, nil
}

// Update patches a project and replaces the matching entry in place. When the
// project is not on the current page the visible list is left unchanged.
func (s *Projects) Update(ctx context.Context, id string, in api.UpdateProjectInput) (*domain.Project, error) {
	s.begin()
	updated, err := s.api.UpdateProject(ctx, id, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = apierr.Message(err)
		return nil, err
	}
	for i := range s.items {
		if s.items[i].ID == updated.ID {
			s.items[i] = *updated
			break
		}
	}
	return updated, nil
}

// Delete soft-deletes a project and removes it from the current page by id.
func (s *Projects) Delete(ctx context.Context, id string) (*domain.Project, error) {
	s.begin()
	deleted, err := s.api.DeleteProject(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = apierr.Message(err)
		return nil, err
	}
	kept := s.items[:0:0]
	for _, p := range s.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.items = kept
	return deleted, nil
}

// Stats fetches the aggregate project breakdown for the dashboard.
func (s *Projects) Stats(ctx context.Context) (*domain.ProjectStats, error) {
	return s.api.ProjectStats(ctx)
}

func (s *Projects) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

// Items returns a copy of the current page.
func (s *Projects) Items() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project(nil), s.items...)
}

// Pagination returns the counters from the last list fetch, or nil.
func (s *Projects) Pagination() *domain.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagination == nil {
		return nil
	}
	p := *s.pagination
	return &p
}

// Loading reports whether a call is in flight.
func (s *Projects) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last error message, or "".
func (s *Projects) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearErr drops the retained error message.
func (s *Projects) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}
