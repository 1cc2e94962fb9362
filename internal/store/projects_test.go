package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
)

type fakeProjectsAPI struct {
	listFn   func(q api.ProjectQuery) (*domain.ProjectPage, error)
	createFn func(in api.CreateProjectInput) (*domain.Project, error)
	updateFn func(id string, in api.UpdateProjectInput) (*domain.Project, error)
	deleteFn func(id string) (*domain.Project, error)
	statsFn  func() (*domain.ProjectStats, error)
}

func (f *fakeProjectsAPI) ListProjects(_ context.Context, q api.ProjectQuery) (*domain.ProjectPage, error) {
	return f.listFn(q)
}

func (f *fakeProjectsAPI) CreateProject(_ context.Context, in api.CreateProjectInput) (*domain.Project, error) {
	return f.createFn(in)
}

func (f *fakeProjectsAPI) UpdateProject(_ context.Context, id string, in api.UpdateProjectInput) (*domain.Project, error) {
	return f.updateFn(id, in)
}

func (f *fakeProjectsAPI) DeleteProject(_ context.Context, id string) (*domain.Project, error) {
	return f.deleteFn(id)
}

func (f *fakeProjectsAPI) ProjectStats(_ context.Context) (*domain.ProjectStats, error) {
	return f.statsFn()
}

func projectPage(totalCount int, names ...string) *domain.ProjectPage {
	page := &domain.ProjectPage{
		Pagination: domain.Pagination{
			CurrentPage: 1,
			TotalPages:  1,
			TotalCount:  totalCount,
			Limit:       10,
		},
	}
	for i, name := range names {
		page.Items = append(page.Items, domain.Project{
			ID:     "p" + string(rune('1'+i)),
			Name:   name,
			Status: domain.ProjectActive,
		})
	}
	return page
}

func TestProjectsListReplacesCollection(t *testing.T) {
	fake := &fakeProjectsAPI{listFn: func(q api.ProjectQuery) (*domain.ProjectPage, error) {
		if q.Page == 2 {
			return projectPage(13, "Delta"), nil
		}
		return projectPage(13, "Alpha", "Beta", "Gamma"), nil
	}}
	s := NewProjects(fake, zerolog.Nop())

	_, err := s.List(context.Background(), api.ProjectQuery{Page: 1})
	require.NoError(t, err)
	require.Len(t, s.Items(), 3)

	_, err = s.List(context.Background(), api.ProjectQuery{Page: 2})
	require.NoError(t, err)
	items := s.Items()
	require.Len(t, items, 1, "a new page replaces the old one, never appends")
	assert.Equal(t, "Delta", items[0].Name)
	assert.False(t, s.Loading())
}

func TestProjectsCreatePrependsWithoutRenumbering(t *testing.T) {
	fake := &fakeProjectsAPI{
		listFn: func(api.ProjectQuery) (*domain.ProjectPage, error) {
			return projectPage(3, "Alpha", "Beta", "Gamma"), nil
		},
		createFn: func(in api.CreateProjectInput) (*domain.Project, error) {
			return &domain.Project{ID: "p9", Name: in.Name, Status: domain.ProjectActive}, nil
		},
	}
	s := NewProjects(fake, zerolog.Nop())
	_, err := s.List(context.Background(), api.ProjectQuery{})
	require.NoError(t, err)

	created, err := s.Create(context.Background(), api.CreateProjectInput{Name: "Apollo"})
	require.NoError(t, err)
	assert.Equal(t, "Apollo", created.Name)

	items := s.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "Apollo", items[0].Name, "new project goes to the top of the page")
	assert.Equal(t, 3, s.Pagination().TotalCount, "counters stay stale until the next list")
}

func TestProjectsUpdateSplicesInPlace(t *testing.T) {
	fake := &fakeProjectsAPI{
		listFn: func(api.ProjectQuery) (*domain.ProjectPage, error) {
			return projectPage(3, "Alpha", "Beta", "Gamma"), nil
		},
		updateFn: func(id string, in api.UpdateProjectInput) (*domain.Project, error) {
			return &domain.Project{ID: id, Name: "Beta", Status: domain.ProjectArchived}, nil
		},
	}
	s := NewProjects(fake, zerolog.Nop())
	_, err := s.List(context.Background(), api.ProjectQuery{})
	require.NoError(t, err)

	status := domain.ProjectArchived
	_, err = s.Update(context.Background(), "p2", api.UpdateProjectInput{Status: &status})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, domain.ProjectArchived, items[1].Status)
	assert.Equal(t, "Alpha", items[0].Name, "neighbours keep their positions")
	assert.Equal(t, "Gamma", items[2].Name)
}

func TestProjectsUpdateOffPageLeavesCollectionUntouched(t *testing.T) {
	fake := &fakeProjectsAPI{
		listFn: func(api.ProjectQuery) (*domain.ProjectPage, error) {
			return projectPage(3, "Alpha", "Beta"), nil
		},
		updateFn: func(id string, in api.UpdateProjectInput) (*domain.Project, error) {
			return &domain.Project{ID: id, Name: "Elsewhere", Status: domain.ProjectActive}, nil
		},
	}
	s := NewProjects(fake, zerolog.Nop())
	_, err := s.List(context.Background(), api.ProjectQuery{})
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "p77", api.UpdateProjectInput{})
	require.NoError(t, err, "updating an entity from another page is not an error")
	require.Len(t, s.Items(), 2)
	assert.Empty(t, s.Err())
}

func TestProjectsDeleteDropsEntryById(t *testing.T) {
	fake := &fakeProjectsAPI{
		listFn: func(api.ProjectQuery) (*domain.ProjectPage, error) {
			return projectPage(3, "Alpha", "Beta", "Gamma"), nil
		},
		deleteFn: func(id string) (*domain.Project, error) {
			return &domain.Project{ID: id, Name: "Beta", Status: domain.ProjectDeleted, IsDeleted: true}, nil
		},
	}
	s := NewProjects(fake, zerolog.Nop())
	_, err := s.List(context.Background(), api.ProjectQuery{})
	require.NoError(t, err)

	deleted, err := s.Delete(context.Background(), "p2")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Gamma", items[1].Name)
	assert.Equal(t, 3, s.Pagination().TotalCount, "counters stay stale until the next list")
}

func TestProjectsErrorRetainedForView(t *testing.T) {
	fake := &fakeProjectsAPI{
		createFn: func(api.CreateProjectInput) (*domain.Project, error) {
			return nil, apierr.FromStatus(409, "project name already exists", nil)
		},
	}
	s := NewProjects(fake, zerolog.Nop())

	_, err := s.Create(context.Background(), api.CreateProjectInput{Name: "Apollo"})
	require.ErrorIs(t, err, apierr.ErrConflict)
	assert.Equal(t, "project name already exists", s.Err())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Items(), "failed create adds nothing")

	s.ClearErr()
	assert.Empty(t, s.Err())
}

// A list that completes after a later mutation overwrites the splice. The
// store is last-writer-wins on purpose; the next list reconciles.
func TestProjectsLateListOverwritesSplice(t *testing.T) {
	fake := &fakeProjectsAPI{
		listFn: func(api.ProjectQuery) (*domain.ProjectPage, error) {
			return projectPage(3, "Alpha", "Beta", "Gamma"), nil
		},
		createFn: func(in api.CreateProjectInput) (*domain.Project, error) {
			return &domain.Project{ID: "p9", Name: in.Name, Status: domain.ProjectActive}, nil
		},
	}
	s := NewProjects(fake, zerolog.Nop())

	_, err := s.Create(context.Background(), api.CreateProjectInput{Name: "Apollo"})
	require.NoError(t, err)
	require.Equal(t, "Apollo", s.Items()[0].Name)

	// A stale page snapshot arrives after the create.
	_, err = s.List(context.Background(), api.ProjectQuery{})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Alpha", items[0].Name, "the late list wins wholesale")
}
