// Package api is the typed client for the remote admin API. Every call
// exchanges the standard {success, message, data, errors} envelope; failures
// are folded into the taxonomy of internal/domain/errors and never panic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
)

// TokenSource supplies the current bearer token, or "" when anonymous.
type TokenSource func() string

// Client talks to the remote API. Safe for concurrent use.
type Client struct {
	http        *resty.Client
	token       TokenSource
	onAuthError func()
	log         zerolog.Logger
}

// New creates a client for the API at baseURL. The client enforces no timeout
// of its own; timeout behavior is the transport's. Every request carries a
// per-boot instance id so the API's logs can tell consoles apart.
func New(baseURL string, log zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("X-Client-Instance", uuid.NewString())
	return &Client{
		http:  rc,
		token: func() string { return "" },
		log:   log,
	}
}

// SetTokenSource wires the session's token into authenticated requests.
func (c *Client) SetTokenSource(src TokenSource) {
	if src != nil {
		c.token = src
	}
}

// OnAuthError registers a hook fired whenever an authenticated call is
// rejected with 401. The session store uses it to force a logout regardless
// of which call tripped it.
func (c *Client) OnAuthError(fn func()) { c.onAuthError = fn }

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Errors  []apierr.FieldError `json:"errors,omitempty"`
}

// do issues one request and decodes the envelope's data into out (when out is
// non-nil). authed controls bearer credential attachment; login, register and
// verify-invite are the only anonymous calls.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, authed bool, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}
	if authed {
		if tok := c.token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api transport failure")
		return apierr.Transport(err)
	}

	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return apierr.FromStatus(resp.StatusCode(), "malformed response from server", nil)
		}
	}

	if resp.StatusCode() >= 400 || !env.Success {
		apiError := apierr.FromStatus(resp.StatusCode(), env.Message, env.Errors)
		if authed && resp.StatusCode() == http.StatusUnauthorized && c.onAuthError != nil {
			c.onAuthError()
		}
		return apiError
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apierr.FromStatus(resp.StatusCode(), "malformed response from server", nil)
		}
	}
	return nil
}
