package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/authz"
	"github.com/wardroomhq/wardroom/internal/domain"
	"github.com/wardroomhq/wardroom/internal/store"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

// ProjectsHandler serves the project collection. Any authenticated identity
// may create; edit and delete are checked per entity against the policy.
type ProjectsHandler struct {
	projects *store.Projects
	render   *Renderer
	flash    *Flash
	validate *validator.Validate
	log      zerolog.Logger
}

// NewProjectsHandler creates the projects view handler.
func NewProjectsHandler(projects *store.Projects, render *Renderer, flash *Flash, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projects: projects,
		render:   render,
		flash:    flash,
		validate: validator.New(),
		log:      log,
	}
}

type projectForm struct {
	Name        string `validate:"required,min=2,max=120"`
	Description string `validate:"max=500"`
}

type projectsView struct {
	Identity   *domain.Identity
	Policy     authz.Policy
	Items      []domain.Project
	Pagination *domain.Pagination
	Query      api.ProjectQuery
	Error      string
	Flashes    []string
}

// List fetches and renders one page of projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := api.ProjectQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultPageSize),
		Search: r.URL.Query().Get("search"),
		Status: domain.ProjectStatus(r.URL.Query().Get("status")),
	}
	_, err := h.projects.List(r.Context(), q)
	identity := middleware.IdentityFromContext(r.Context())
	view := projectsView{
		Identity:   identity,
		Policy:     authz.For(identity),
		Items:      h.projects.Items(),
		Pagination: h.projects.Pagination(),
		Query:      q,
		Flashes:    h.flash.Pop(w, r),
	}
	if err != nil {
		view.Error = h.projects.Err()
	}
	h.render.Render(w, "projects.html", view)
}

// Create adds a project. The new entity is prepended to the visible page; the
// pagination counters stay stale until the next full list.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash.Add(w, r, "malformed form submission")
		http.Redirect(w, r, "/projects", http.StatusFound)
		return
	}
	form := projectForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.flash.Add(w, r, "a project name between 2 and 120 characters is required")
		http.Redirect(w, r, "/projects", http.StatusFound)
		return
	}
	in := api.CreateProjectInput{Name: form.Name, Description: form.Description}
	if _, err := h.projects.Create(r.Context(), in); err != nil {
		h.flash.Add(w, r, h.projects.Err())
	}
	http.Redirect(w, r, "/projects", http.StatusFound)
}

// Update patches a project. Only submitted fields are sent upstream.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.allowMutation(w, r, id) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash.Add(w, r, "malformed form submission")
		http.Redirect(w, r, "/projects", http.StatusFound)
		return
	}
	var in api.UpdateProjectInput
	if r.PostForm.Has("name") {
		name := r.PostFormValue("name")
		in.Name = &name
	}
	if r.PostForm.Has("description") {
		description := r.PostFormValue("description")
		in.Description = &description
	}
	if r.PostForm.Has("status") {
		status := domain.ProjectStatus(r.PostFormValue("status"))
		if !status.Valid() {
			h.flash.Add(w, r, "unknown project status")
			http.Redirect(w, r, "/projects", http.StatusFound)
			return
		}
		in.Status = &status
	}
	if _, err := h.projects.Update(r.Context(), id, in); err != nil {
		h.flash.Add(w, r, h.projects.Err())
	}
	http.Redirect(w, r, "/projects", http.StatusFound)
}

// Delete soft-deletes a project and drops it from the visible page.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.allowMutation(w, r, id) {
		return
	}
	if _, err := h.projects.Delete(r.Context(), id); err != nil {
		h.flash.Add(w, r, h.projects.Err())
	}
	http.Redirect(w, r, "/projects", http.StatusFound)
}

// allowMutation is the per-entity capability gate: an authorization failure
// redirects to the landing view with no error banner.
func (h *ProjectsHandler) allowMutation(w http.ResponseWriter, r *http.Request, id string) bool {
	pol := authz.For(middleware.IdentityFromContext(r.Context()))
	project := domain.Project{ID: id}
	for _, p := range h.projects.Items() {
		if p.ID == id {
			project = p
			break
		}
	}
	if !pol.CanEditProject(project) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return false
	}
	return true
}
