package core

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("keystore configuration error")
	ErrIntegrity       = errors.New("keystore integrity error")
	ErrMissingArtifact = errors.New("keystore artifact missing")
	ErrSyntax          = errors.New("document syntax error")
)

// Artifact names reported by MissingArtifactError
const (
	ArtifactArchive = "archive"
	ArtifactSalt    = "salt"
)

// ConfigurationError represents a pre-flight failure: wrong document count,
// oversized or colliding documents, or a salt of the wrong length
type ConfigurationError struct {
	Path    string // File or directory responsible, if any
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// IntegrityError indicates a block whose decrypted content does not hash to
// its stored digest. The archive itself is damaged and cannot serve as a
// reference.
type IntegrityError struct {
	Block    int
	Expected string // Stored digest
	Actual   string // Digest of the decrypted bytes
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: block %d decryption failed: SHA256 mismatch (expected %s..., got %s...)",
		e.Block, short(e.Expected), short(e.Actual))
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// MissingArtifactError indicates the archive or salt file is absent
type MissingArtifactError struct {
	Artifact string // archive or salt
	Path     string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("%s missing (%s not found)", e.Artifact, e.Path)
}

func (e *MissingArtifactError) Is(target error) bool {
	return target == ErrMissingArtifact
}

// SyntaxError indicates a document that is not valid JSON, either a source
// file at build time (Path set) or a decrypted block (Block >= 0)
type SyntaxError struct {
	Path  string
	Block int
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("block %d invalid JSON: %v", e.Block, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// short truncates a digest for messages
func short(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}
