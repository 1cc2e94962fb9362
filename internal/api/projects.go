package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wardroomhq/wardroom/internal/domain"
)

// ProjectQuery is forwarded verbatim to GET /projects.
type ProjectQuery struct {
	Page   int
	Limit  int
	Search string
	Status domain.ProjectStatus
}

func (q ProjectQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// CreateProjectInput is the payload for POST /projects.
type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectInput is the partial payload for PATCH /projects/{id}. Nil
// fields are omitted from the patch.
type UpdateProjectInput struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Status      *domain.ProjectStatus `json:"status,omitempty"`
}

type projectData struct {
	Project *domain.Project `json:"project"`
}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, q ProjectQuery) (*domain.ProjectPage, error) {
	var page domain.ProjectPage
	if err := c.do(ctx, http.MethodGet, "/projects", q.values(), nil, true, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateProject creates a project and returns it.
func (c *Client) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	var data projectData
	if err := c.do(ctx, http.MethodPost, "/projects", nil, in, true, &data); err != nil {
		return nil, err
	}
	return data.Project, nil
}

// UpdateProject patches a project and returns the updated entity.
func (c *Client) UpdateProject(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error) {
	var data projectData
	if err := c.do(ctx, http.MethodPatch, "/projects/"+url.PathEscape(id), nil, in, true, &data); err != nil {
		return nil, err
	}
	return data.Project, nil
}

// DeleteProject soft-deletes a project server-side and returns the entity with
// status DELETED and isDeleted set.
func (c *Client) DeleteProject(ctx context.Context, id string) (*domain.Project, error) {
	var data projectData
	if err := c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, true, &data); err != nil {
		return nil, err
	}
	return data.Project, nil
}

// ProjectStats returns the aggregate project breakdown.
func (c *Client) ProjectStats(ctx context.Context) (*domain.ProjectStats, error) {
	var data struct {
		Stats *domain.ProjectStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/stats", nil, nil, true, &data); err != nil {
		return nil, err
	}
	return data.Stats, nil
}
