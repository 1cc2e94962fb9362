// Package store holds the console's in-memory resource collections. Each
// store mirrors the page the operator is looking at and splices mutation
// results back in without re-fetching; pagination counters go stale until the
// next full list, by design.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
)

// UsersAPI is the slice of the remote API the user store needs.
type UsersAPI interface {
	ListUsers(ctx context.Context, q api.UserQuery) (*domain.UserPage, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.Identity, error)
	UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.Identity, error)
	UserStats(ctx context.Context) (*domain.UserStats, error)
}

// Users is the paginated user directory. There is no user deletion; the only
// mutations are role and status changes.
type Users struct {
	api UsersAPI
	log zerolog.Logger

	mu         sync.Mutex
	items      []domain.Identity
	pagination *domain.Pagination
	loading    bool
	errMsg     string
}

// NewUsers creates an empty user store.
func NewUsers(usersAPI UsersAPI, log zerolog.Logger) *Users {
	return &Users{api: usersAPI, log: log}
}

// List fetches one page and replaces the collection wholesale. The query is
// forwarded verbatim; the store never filters client-side.
func (s *Users) List(ctx context.Context, q api.UserQuery) (*domain.UserPage, error) {
	s.begin()
	page, err := s.api.ListUsers(ctx, q)
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

// UpdateRole changes a user's role. The updated identity replaces the matching
// entry on the current page; when the user is not on this page the visible
// list is left unchanged and no error is reported.
func (s *Users) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Identity, error) {
	s.begin()
	updated, err := s.api.UpdateUserRole(ctx, id, role)
	return s.applyUpdate(updated, err)
}

// UpdateStatus activates or deactivates a user, with the same splice contract
// as UpdateRole.
func (s *Users) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.Identity, error) {
	s.begin()
	updated, err := s.api.UpdateUserStatus(ctx, id, status)
	return s.applyUpdate(updated, err)
}

func (s *Users) applyUpdate(updated *domain.Identity, err error) (*domain.Identity, error) {
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

// Stats fetches the aggregate user breakdown for the dashboard. It does not
// touch the collection.
func (s *Users) Stats(ctx context.Context) (*domain.UserStats, error) {
	return s.api.UserStats(ctx)
}

func (s *Users) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

// Items returns a copy of the current page.
func (s *Users) Items() []domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Identity(nil), s.items...)
}

// Pagination returns the counters from the last list fetch, or nil.
func (s *Users) Pagination() *domain.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagination == nil {
		return nil
	}
	p := *s.pagination
	return &p
}

// Loading reports whether a call is in flight.
func (s *Users) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last error message, or "".
func (s *Users) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearErr drops the retained error message.
func (s *Users) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}
