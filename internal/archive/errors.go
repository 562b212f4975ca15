package archive

import (
	"errors"
	"fmt"
)

// Field names reported by FormatError
const (
	FieldHeader = "header"
	FieldDigest = "digest"
	FieldSize   = "size"
	FieldData   = "data"
)

var (
	// ErrFormat matches every *FormatError via errors.Is
	ErrFormat = errors.New("keystore format error")

	// ErrBlockTooLarge indicates a ciphertext that overflows the 5-digit length field
	ErrBlockTooLarge = errors.New("block exceeds maximum size")

	// ErrTooManyBlocks indicates a block count that overflows the 2-digit header
	ErrTooManyBlocks = errors.New("too many blocks")
)

// FormatError represents an unparseable or truncated archive region
type FormatError struct {
	Block   int    // Block index, -1 for the header
	Field   string // header, digest, size or data
	Offset  int    // Byte offset where the field starts
	Message string // Human-readable error message
}

func (e *FormatError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("keystore corrupted: %s at offset %d: %s", e.Field, e.Offset, e.Message)
	}
	return fmt.Sprintf("keystore corrupted at block %d (%s) at offset %d: %s", e.Block, e.Field, e.Offset, e.Message)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
