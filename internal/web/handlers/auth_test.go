package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
	"github.com/wardroomhq/wardroom/internal/session"
)

type fakeAuthBackend struct {
	identity *domain.Identity
	loginErr error
}

func (f *fakeAuthBackend) Login(context.Context, string, string) (*domain.Identity, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.identity, "tok123", nil
}

func (f *fakeAuthBackend) RegisterViaInvite(_ context.Context, _, name, _ string) (*domain.Identity, string, error) {
	return &domain.Identity{ID: "u2", Name: name, Role: domain.RoleStaff, Status: domain.UserActive}, "tok456", nil
}

func (f *fakeAuthBackend) Me(context.Context) (*domain.Identity, error) {
	return f.identity, nil
}

type discardStorage struct{}

func (discardStorage) Load(context.Context) (string, *domain.Identity, error) { return "", nil, nil }
func (discardStorage) Save(context.Context, string, *domain.Identity) error   { return nil }
func (discardStorage) Clear(context.Context) error                            { return nil }


type fakeInviteAPI struct {
	claim     *domain.InviteClaim
	verifyErr error
	grant     *domain.InviteGrant
	createErr error
	gotEmail  string
	gotRole   domain.Role
}

func (f *fakeInviteAPI) VerifyInvite(context.Context, string) (*domain.InviteClaim, error) {
	return f.claim, f.verifyErr
}

func (f *fakeInviteAPI) CreateInvite(_ context.Context, email string, role domain.Role) (*domain.InviteGrant, error) {
	f.gotEmail, f.gotRole = email, role
	return f.grant, f.createErr
}

func newAuthHandler(t *testing.T, backend *fakeAuthBackend, invites *fakeInviteAPI) (*AuthHandler, *session.Store) {
	t.Helper()
	log := zerolog.Nop()
	sessions := session.NewStore(backend, discardStorage{}, log)
	h := NewAuthHandler(sessions, invites, NewRenderer(log), NewFlash("test-secret", true), log)
	return h, sessions
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginRedirectsToRecordedLocation(t *testing.T) {
	backend := &fakeAuthBackend{identity: &domain.Identity{ID: "u1", Email: "a@x.com", Role: domain.RoleAdmin, Status: domain.UserActive}}
	h, sessions := newAuthHandler(t, backend, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"secret1"},
		"next":     {"/users?page=2"},
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users?page=2", rec.Header().Get("Location"))
	assert.True(t, sessions.IsAuthenticated())
}

func TestLoginRejectsOffsiteReturnLocation(t *testing.T) {
	backend := &fakeAuthBackend{identity: &domain.Identity{ID: "u1", Role: domain.RoleAdmin, Status: domain.UserActive}}
	h, _ := newAuthHandler(t, backend, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"secret1"},
		"next":     {"https://evil.example/phish"},
	}))

	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginFailureRendersFormWithMessage(t *testing.T) {
	backend := &fakeAuthBackend{loginErr: apierr.FromStatus(401, "invalid credentials", nil)}
	h, sessions := newAuthHandler(t, backend, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"wrong"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code, "a failed login re-renders the form, no redirect")
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.False(t, sessions.IsAuthenticated())
}

func TestLoginValidatesBeforeCallingBackend(t *testing.T) {
	backend := &fakeAuthBackend{loginErr: apierr.ErrServer} // would fail if reached
	h, sessions := newAuthHandler(t, backend, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login", url.Values{"email": {"not-an-email"}, "password": {""}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
	assert.Equal(t, session.Anonymous, sessions.State())
}

func TestShowLoginSkipsFormWhenAuthenticated(t *testing.T) {
	backend := &fakeAuthBackend{identity: &domain.Identity{ID: "u1", Role: domain.RoleStaff, Status: domain.UserActive}}
	h, sessions := newAuthHandler(t, backend, &fakeInviteAPI{})
	require.NoError(t, sessions.Login(context.Background(), "a@x.com", "secret1"))

	rec := httptest.NewRecorder()
	h.ShowLogin(rec, httptest.NewRequest(http.MethodGet, "/login?next=%2Fprojects", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/projects", rec.Header().Get("Location"))
}

func TestShowRegisterPrefillsInviteClaim(t *testing.T) {
	expires := time.Now().Add(48 * time.Hour)
	invites := &fakeInviteAPI{claim: &domain.InviteClaim{Email: "b@x.com", Role: domain.RoleManager, ExpiresAt: expires}}
	h, _ := newAuthHandler(t, &fakeAuthBackend{}, invites)

	rec := httptest.NewRecorder()
	h.ShowRegister(rec, httptest.NewRequest(http.MethodGet, "/register?token=inv-9", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "b@x.com")
	assert.Contains(t, body, "MANAGER")
}

func TestShowRegisterReportsBadToken(t *testing.T) {
	invites := &fakeInviteAPI{verifyErr: apierr.FromStatus(404, "invitation not found or expired", nil)}
	h, _ := newAuthHandler(t, &fakeAuthBackend{}, invites)

	rec := httptest.NewRecorder()
	h.ShowRegister(rec, httptest.NewRequest(http.MethodGet, "/register?token=bogus", nil))

	assert.Contains(t, rec.Body.String(), "invitation not found or expired")
}

func TestRegisterSignsInAndRedirects(t *testing.T) {
	h, sessions := newAuthHandler(t, &fakeAuthBackend{}, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register", url.Values{
		"token":    {"inv-9"},
		"name":     {"Bea"},
		"password": {"longenough"},
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.True(t, sessions.IsAuthenticated())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h, sessions := newAuthHandler(t, &fakeAuthBackend{}, &fakeInviteAPI{})

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register", url.Values{
		"token":    {"inv-9"},
		"name":     {"Bea"},
		"password": {"short"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	backend := &fakeAuthBackend{identity: &domain.Identity{ID: "u1", Role: domain.RoleAdmin, Status: domain.UserActive}}
	h, sessions := newAuthHandler(t, backend, &fakeInviteAPI{})
	require.NoError(t, sessions.Login(context.Background(), "a@x.com", "secret1"))

	rec := httptest.NewRecorder()
	h.Logout(rec, postForm("/logout", url.Values{}))

	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, sessions.IsAuthenticated())
}

func TestCreateInviteFlashesLink(t *testing.T) {
	invites := &fakeInviteAPI{grant: &domain.InviteGrant{
		Invite:      domain.Invitation{Email: "b@x.com", Role: domain.RoleStaff},
		InviteToken: "inv-9",
		InviteLink:  "http://localhost:8089/register?token=inv-9",
	}}
	h, _ := newAuthHandler(t, &fakeAuthBackend{}, invites)

	rec := httptest.NewRecorder()
	h.CreateInvite(rec, postForm("/invites", url.Values{
		"email": {"b@x.com"},
		"role":  {"STAFF"},
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))
	assert.Equal(t, "b@x.com", invites.gotEmail)
	assert.Equal(t, domain.RoleStaff, invites.gotRole)
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"), "the invite link travels in the flash cookie")
}

func TestCreateInviteRejectsUnknownRole(t *testing.T) {
	invites := &fakeInviteAPI{}
	h, _ := newAuthHandler(t, &fakeAuthBackend{}, invites)

	rec := httptest.NewRecorder()
	h.CreateInvite(rec, postForm("/invites", url.Values{
		"email": {"b@x.com"},
		"role":  {"SUPERUSER"},
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, invites.gotEmail, "invalid input never reaches the API")
}
