package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wardroomhq/wardroom/internal/domain"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type inviteBody struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type sessionData struct {
	User  *domain.Identity `json:"user"`
	Token string           `json:"token"`
}

type userData struct {
	User *domain.Identity `json:"user"`
}

// Login exchanges credentials for an identity and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	var data sessionData
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentialsBody{Email: email, Password: password}, false, &data)
	if err != nil {
		return nil, "", err
	}
	return data.User, data.Token, nil
}

// RegisterViaInvite consumes an invitation token and returns the new identity
// plus its bearer token.
func (c *Client) RegisterViaInvite(ctx context.Context, token, name, password string) (*domain.Identity, string, error) {
	var data sessionData
	err := c.do(ctx, http.MethodPost, "/auth/register-via-invite", nil, registerBody{Token: token, Name: name, Password: password}, false, &data)
	if err != nil {
		return nil, "", err
	}
	return data.User, data.Token, nil
}

// VerifyInvite checks an invitation token and returns its pre-assigned
// email/role so the registration form can be pre-filled.
func (c *Client) VerifyInvite(ctx context.Context, token string) (*domain.InviteClaim, error) {
	var claim domain.InviteClaim
	err := c.do(ctx, http.MethodGet, "/auth/verify-invite/"+url.PathEscape(token), nil, nil, false, &claim)
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// CreateInvite issues a new invitation. Admin-only on the server side.
func (c *Client) CreateInvite(ctx context.Context, email string, role domain.Role) (*domain.InviteGrant, error) {
	var grant domain.InviteGrant
	err := c.do(ctx, http.MethodPost, "/auth/invite", nil, inviteBody{Email: email, Role: role}, true, &grant)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Me re-fetches the identity behind the current token.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var data userData
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, true, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}
