// Package session owns the authenticated identity, the bearer token, and the
// durable keyring behind them. It is the single writer of the keyring; every
// other component reads session state through the store.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/domain"
	apierr "github.com/wardroomhq/wardroom/internal/domain/errors"
)

// State is the session lifecycle state. Anonymous is the rest state; there is
// no terminal state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

// AuthAPI is the slice of the remote API the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.Identity, string, error)
	RegisterViaInvite(ctx context.Context, token, name, password string) (*domain.Identity, string, error)
	Me(ctx context.Context) (*domain.Identity, error)
}

// Store holds the session. State is mutated only at call boundaries and
// response-handling points, serialized by the store's mutex; the lock is never
// held across a network call.
type Store struct {
	api     AuthAPI
	storage Storage
	log     zerolog.Logger

	mu       sync.Mutex
	state    State
	identity *domain.Identity
	token    string
	errMsg   string
}

// NewStore creates an anonymous session store.
func NewStore(api AuthAPI, storage Storage, log zerolog.Logger) *Store {
	return &Store{api: api, storage: storage, log: log}
}

// Restore loads a persisted session from the keyring. It is called once at
// startup; a session counts only when token and identity are both present.
func (s *Store) Restore(ctx context.Context) error {
	token, identity, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" && identity != nil {
		s.token = token
		s.identity = identity
		s.state = Authenticated
		s.log.Info().Str("email", identity.Email).Msg("session restored")
	}
	return nil
}

// Login exchanges credentials for a session. On failure the prior session is
// left untouched and the error message is retained for the view.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	prev := s.state
	s.state = Authenticating
	s.errMsg = ""
	s.mu.Unlock()

	identity, token, err := s.api.Login(ctx, email, password)
	return s.applyCredentials(ctx, prev, identity, token, err)
}

// Register consumes an invitation token and signs the new identity in. Same
// persistence contract as Login.
func (s *Store) Register(ctx context.Context, inviteToken, name, password string) error {
	s.mu.Lock()
	prev := s.state
	s.state = Authenticating
	s.errMsg = ""
	s.mu.Unlock()

	identity, token, err := s.api.RegisterViaInvite(ctx, inviteToken, name, password)
	return s.applyCredentials(ctx, prev, identity, token, err)
}

func (s *Store) applyCredentials(ctx context.Context, prev State, identity *domain.Identity, token string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prev
		s.errMsg = apierr.Message(err)
		return err
	}
	s.identity = identity
	s.token = token
	s.state = Authenticated
	s.errMsg = ""
	if err := s.storage.Save(ctx, token, identity); err != nil {
		// The in-memory session stays valid; it just won't survive a restart.
		s.log.Warn().Err(err).Msg("persist session")
	}
	return nil
}

// Refresh re-fetches the identity behind the stored token to confirm it is
// still valid. Any failure tears the session down and reports it as expired.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.teardownLocked(ctx)
		s.errMsg = "session expired"
		s.mu.Unlock()
		return apierr.ErrAuth
	}
	s.state = Refreshing
	s.mu.Unlock()

	identity, err := s.api.Me(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// A 401 already forced a logout through the client hook; tearing
		// down again is a no-op.
		s.teardownLocked(ctx)
		s.errMsg = "session expired"
		return err
	}
	s.identity = identity
	s.state = Authenticated
	if err := s.storage.Save(ctx, s.token, identity); err != nil {
		s.log.Warn().Err(err).Msg("persist session")
	}
	return nil
}

// Logout clears the session and the keyring. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked(ctx)
}

// ForceLogout is the hook for rejected bearer tokens: teardown plus a
// user-visible "session expired" message. Wired to the API client's 401 hook.
func (s *Store) ForceLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked(context.Background())
	s.errMsg = "session expired"
}

func (s *Store) teardownLocked(ctx context.Context) {
	s.identity = nil
	s.token = ""
	s.state = Anonymous
	s.errMsg = ""
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clear session keyring")
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the cached identity, or nil when anonymous.
func (s *Store) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Token returns the bearer token, or "" when anonymous. It satisfies the API
// client's token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether token and identity are both present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.identity != nil
}

// Err returns the last auth error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearErr drops the retained error message before the next attempt.
func (s *Store) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}
