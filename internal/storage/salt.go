package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DirPerm  = 0755
	SaltPerm = 0644
)

// SaltStore reads and writes the salt file
type SaltStore struct {
	path string
}

// NewSaltStore creates a store for the salt file at path
func NewSaltStore(path string) *SaltStore {
	return &SaltStore{path: path}
}

// Path returns the salt file location
func (s *SaltStore) Path() string {
	return s.path
}

// Exists reports whether the salt file is present
func (s *SaltStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read returns the salt bytes, or nil without error if the file is absent
func (s *SaltStore) Read() ([]byte, error) {
	salt, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	return salt, nil
}

// Write persists salt verbatim, creating the parent directory if needed.
// An existing salt file is overwritten.
func (s *SaltStore) Write(salt []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), DirPerm); err != nil {
		return fmt.Errorf("failed to create salt directory: %w", err)
	}
	if err := os.WriteFile(s.path, salt, SaltPerm); err != nil {
		return fmt.Errorf("failed to write salt: %w", err)
	}
	return nil
}

// Remove deletes the salt file. A missing file is not an error.
func (s *SaltStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove salt: %w", err)
	}
	return nil
}
