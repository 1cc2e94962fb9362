package session

import (
	"context"

	"github.com/wardroomhq/wardroom/internal/domain"
)

// Durable storage keys. Both entries are written together and cleared
// together; a token without an identity (or the reverse) never counts as a
// session.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage is the durable keyring behind the session store. It is read once at
// startup and written only by the session store's login, register, refresh and
// logout paths; no other component touches it.
type Storage interface {
	// Load returns the persisted token and identity, or ("", nil, nil) when
	// no session is stored.
	Load(ctx context.Context) (token string, identity *domain.Identity, err error)
	// Save persists both entries atomically with respect to each other.
	Save(ctx context.Context, token string, identity *domain.Identity) error
	// Clear removes both entries. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
