// Package storage provides durable session keyrings: a JSON file for the
// common single-host setup and Redis for consoles that must survive a host
// rebuild.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wardroomhq/wardroom/internal/domain"
	"github.com/wardroomhq/wardroom/internal/session"
)

// File persists the session as a single JSON document on disk, mode 0600.
type File struct {
	path string
}

// NewFile returns a file keyring at path. Parent directories are created on
// the first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

type fileDoc struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user,omitempty"`
}

func (f *File) Load(ctx context.Context) (string, *domain.Identity, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, err
	}
	var doc fileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		// A corrupt keyring is treated as no session rather than a fatal
		// startup error.
		return "", nil, nil
	}
	return doc.Token, doc.User, nil
}

func (f *File) Save(ctx context.Context, token string, identity *domain.Identity) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(fileDoc{Token: token, User: identity})
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ session.Storage = (*File)(nil)
