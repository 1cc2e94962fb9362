package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/authz"
	"github.com/wardroomhq/wardroom/internal/domain"
	"github.com/wardroomhq/wardroom/internal/store"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

// DashboardHandler renders the landing view with the stat blocks the current
// identity is allowed to see.
type DashboardHandler struct {
	users    *store.Users
	projects *store.Projects
	render   *Renderer
	flash    *Flash
	log      zerolog.Logger
}

// NewDashboardHandler creates the dashboard view handler.
func NewDashboardHandler(users *store.Users, projects *store.Projects, render *Renderer, flash *Flash, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{users: users, projects: projects, render: render, flash: flash, log: log}
}

type dashboardView struct {
	Identity     *domain.Identity
	Policy       authz.Policy
	ProjectStats *domain.ProjectStats
	UserStats    *domain.UserStats
	Error        string
	Flashes      []string
}

// Show renders the dashboard. Stats failures surface as a banner; they never
// block the view.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	pol := authz.For(identity)

	view := dashboardView{
		Identity: identity,
		Policy:   pol,
		Flashes:  h.flash.Pop(w, r),
	}
	projectStats, err := h.projects.Stats(r.Context())
	if err != nil {
		view.Error = "could not load project stats"
		h.log.Warn().Err(err).Msg("project stats")
	} else {
		view.ProjectStats = projectStats
	}
	if pol.CanViewUsers() {
		userStats, err := h.users.Stats(r.Context())
		if err != nil {
			view.Error = "could not load user stats"
			h.log.Warn().Err(err).Msg("user stats")
		} else {
			view.UserStats = userStats
		}
	}
	h.render.Render(w, "dashboard.html", view)
}
