package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialStorage is the single named slot the raw bearer token lives in
// between runs. Absence of the slot means logged-out.
type CredentialStorage interface {
	// Read returns the stored token, or [ErrNoCredential] if the slot is
	// empty.
	Read() (string, error)

	// Write stores the token, replacing any previous value.
	Write(token string) error

	// Delete empties the slot. Deleting an already-empty slot is not an
	// error.
	Delete() error
}

type fileCredentialStorage struct {
	path string
}

// NewFileCredentialStorage returns a [CredentialStorage] backed by a single
// file at path. The parent directory is created on first write.
func NewFileCredentialStorage(path string) CredentialStorage {
	return &fileCredentialStorage{path: path}
}

func (s *fileCredentialStorage) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("read credential file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (s *fileCredentialStorage) Write(token string) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

func (s *fileCredentialStorage) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete credential file: %w", err)
	}
	return nil
}
