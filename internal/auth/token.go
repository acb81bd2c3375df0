package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

// FileStore keeps the bearer token in a single file readable only by the
// current user.
type FileStore struct {
	path string
}

var _ httpclient.TokenSource = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Token returns the saved token, or "" when nobody is logged in.
func (s *FileStore) Token(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read token file")
	}
	return strings.TrimSpace(string(data)), nil
}

// Save replaces the stored token.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}

// Clear forgets the token. Clearing when no token is stored is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}
