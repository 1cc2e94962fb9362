package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wardroomhq/wardroom/internal/domain"
)

// UserQuery is forwarded verbatim to GET /users; the client never filters
// results itself.
type UserQuery struct {
	Page   int
	Limit  int
	Search string
	Role   domain.Role
	Status domain.UserStatus
}

func (q UserQuery) values() url.Values {
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
	if q.Role != "" {
		v.Set("role", string(q.Role))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// ListUsers returns one page of identities.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*domain.UserPage, error) {
	var page domain.UserPage
	if err := c.do(ctx, http.MethodGet, "/users", q.values(), nil, true, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateUserRole changes a user's role and returns the updated identity.
func (c *Client) UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.Identity, error) {
	var data userData
	body := map[string]domain.Role{"role": role}
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/role", nil, body, true, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// UpdateUserStatus activates or deactivates a user and returns the updated identity.
func (c *Client) UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.Identity, error) {
	var data userData
	body := map[string]domain.UserStatus{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/status", nil, body, true, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// UserStats returns the aggregate user breakdown.
func (c *Client) UserStats(ctx context.Context) (*domain.UserStats, error) {
	var data struct {
		Stats *domain.UserStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/stats", nil, nil, true, &data); err != nil {
		return nil, err
	}
	return data.Stats, nil
}
