package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/authz"
	"github.com/wardroomhq/wardroom/internal/domain"
	"github.com/wardroomhq/wardroom/internal/store"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

const defaultPageSize = 10

// UsersHandler serves the user directory. The whole route group sits behind
// the CanViewUsers capability gate.
type UsersHandler struct {
	users  *store.Users
	render *Renderer
	flash  *Flash
	log    zerolog.Logger
}

// NewUsersHandler creates the user directory handler.
func NewUsersHandler(users *store.Users, render *Renderer, flash *Flash, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, render: render, flash: flash, log: log}
}

type usersView struct {
	Identity   *domain.Identity
	Policy     authz.Policy
	Items      []domain.Identity
	Pagination *domain.Pagination
	Query      api.UserQuery
	Error      string
	Flashes    []string
}

// List fetches and renders one page of the directory. Filter parameters are
// forwarded verbatim to the API.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := api.UserQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultPageSize),
		Search: r.URL.Query().Get("search"),
		Role:   domain.Role(r.URL.Query().Get("role")),
		Status: domain.UserStatus(r.URL.Query().Get("status")),
	}
	_, err := h.users.List(r.Context(), q)
	identity := middleware.IdentityFromContext(r.Context())
	view := usersView{
		Identity:   identity,
		Policy:     authz.For(identity),
		Items:      h.users.Items(),
		Pagination: h.users.Pagination(),
		Query:      q,
		Flashes:    h.flash.Pop(w, r),
	}
	if err != nil {
		view.Error = h.users.Err()
	}
	h.render.Render(w, "users.html", view)
}

// UpdateRole changes a user's role and returns to the directory. A mutation
// for a user not on the current page still succeeds upstream; the visible
// list just stays as it is.
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	role := domain.Role(r.PostFormValue("role"))
	if !role.Valid() {
		h.flash.Add(w, r, "unknown role")
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	if _, err := h.users.UpdateRole(r.Context(), id, role); err != nil {
		h.flash.Add(w, r, h.users.Err())
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// UpdateStatus activates or deactivates a user and returns to the directory.
func (h *UsersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := domain.UserStatus(r.PostFormValue("status"))
	if !status.Valid() {
		h.flash.Add(w, r, "unknown status")
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	if _, err := h.users.UpdateStatus(r.Context(), id, status); err != nil {
		h.flash.Add(w, r, h.users.Err())
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
