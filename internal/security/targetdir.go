package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("path escapes target directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrNotFlat      = errors.New("document names must not contain directories")
)

// TargetDir provides file operations confined to one directory
type TargetDir struct {
	root *os.Root
	path string
}

// OpenTargetDir opens dir, creating it with perm if it does not exist
func OpenTargetDir(dir string, perm os.FileMode) (*TargetDir, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, perm); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open target directory: %w", err)
	}

	return &TargetDir{root: root, path: absPath}, nil
}

// Close releases the directory handle
func (d *TargetDir) Close() error {
	if d.root != nil {
		return d.root.Close()
	}
	return nil
}

// Path returns the absolute path of the directory
func (d *TargetDir) Path() string {
	return d.path
}

// Join returns the absolute path of name inside the directory
func (d *TargetDir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// ValidateName checks that name is a plain file name inside the directory
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyPath
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %s", ErrAbsolutePath, name)
	}
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %s", ErrNotFlat, name)
	}
	return nil
}

// ReadFile reads a document from the directory
func (d *TargetDir) ReadFile(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return d.root.ReadFile(name)
}

// WriteFile writes a document into the directory
func (d *TargetDir) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	return d.root.WriteFile(name, data, perm)
}
