package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
	"github.com/wardroomhq/wardroom/internal/session"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

// InviteAPI is the slice of the remote API the auth handler needs beyond the
// session store.
type InviteAPI interface {
	VerifyInvite(ctx context.Context, token string) (*domain.InviteClaim, error)
	CreateInvite(ctx context.Context, email string, role domain.Role) (*domain.InviteGrant, error)
}

// AuthHandler serves the login, register-via-invite, invite and logout views.
type AuthHandler struct {
	sessions *session.Store
	invites  InviteAPI
	render   *Renderer
	flash    *Flash
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuthHandler creates the auth views handler.
func NewAuthHandler(sessions *session.Store, invites InviteAPI, render *Renderer, flash *Flash, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		invites:  invites,
		render:   render,
		flash:    flash,
		validate: validator.New(),
		log:      log,
	}
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerForm struct {
	Token    string `validate:"required"`
	Name     string `validate:"required,min=2,max=80"`
	Password string `validate:"required,min=8,max=128"`
}

type inviteForm struct {
	Email string      `validate:"required,email"`
	Role  domain.Role `validate:"required,oneof=ADMIN MANAGER STAFF"`
}

type loginView struct {
	Error string
	Next  string
}

// ShowLogin renders the login form, or skips straight to the requested view
// when a session already exists.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	next := middleware.SafeNext(r.URL.Query().Get("next"))
	if h.sessions.IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	h.render.Render(w, "login.html", loginView{Error: h.sessions.Err(), Next: next})
}

// Login submits credentials to the session store and returns the operator to
// the location recorded before the login redirect.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, "login.html", loginView{Error: "malformed form submission"})
		return
	}
	next := middleware.SafeNext(r.PostFormValue("next"))
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.render.Render(w, "login.html", loginView{Error: "email and password are required", Next: next})
		return
	}
	err := h.sessions.Login(r.Context(), form.Email, form.Password)
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.render.Render(w, "login.html", loginView{Error: apierr.Message(err), Next: next})
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

type registerView struct {
	Error string
	Token string
	Claim *domain.InviteClaim
}

// ShowRegister verifies the invite token and renders the registration form
// pre-filled with the invitation's email and role.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.render.Render(w, "register.html", registerView{Error: "missing invitation token"})
		return
	}
	claim, err := h.invites.VerifyInvite(r.Context(), token)
	if err != nil {
		h.render.Render(w, "register.html", registerView{Error: apierr.Message(err)})
		return
	}
	h.render.Render(w, "register.html", registerView{Token: token, Claim: claim})
}

// Register exchanges a valid invitation for a signed-in identity.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, "register.html", registerView{Error: "malformed form submission"})
		return
	}
	form := registerForm{
		Token:    r.PostFormValue("token"),
		Name:     r.PostFormValue("name"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.render.Render(w, "register.html", registerView{Error: "name and a password of at least 8 characters are required", Token: form.Token})
		return
	}
	err := h.sessions.Register(r.Context(), form.Token, form.Name, form.Password)
	middleware.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.render.Render(w, "register.html", registerView{Error: apierr.Message(err), Token: form.Token})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout clears the session and returns to the login view. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusFound)
}

// CreateInvite issues an invitation and flashes the resulting link. Reached
// only through the admin capability gate.
func (h *AuthHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash.Add(w, r, "malformed form submission")
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	form := inviteForm{
		Email: r.PostFormValue("email"),
		Role:  domain.Role(r.PostFormValue("role")),
	}
	if err := h.validate.Struct(form); err != nil {
		h.flash.Add(w, r, "a valid email and role are required for an invitation")
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	grant, err := h.invites.CreateInvite(r.Context(), form.Email, form.Role)
	if err != nil {
		h.flash.Add(w, r, apierr.Message(err))
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	h.log.Info().Str("email", form.Email).Str("role", string(form.Role)).Msg("invitation issued")
	h.flash.Add(w, r, "invitation sent to "+grant.Invite.Email+": "+grant.InviteLink)
	http.Redirect(w, r, "/users", http.StatusFound)
}
