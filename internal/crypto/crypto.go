package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize      = 32     // Salt size in bytes
	KeySize       = 32     // Derived key size in bytes
	DigestSize    = 64     // Hex-encoded SHA-256 length
	KDFIterations = 100000 // PBKDF2 iterations
)

// GenerateSalt returns SaltSize cryptographically random bytes
func GenerateSalt() ([]byte, error) {
	return GenerateRandom(SaltSize)
}

// DeriveKey derives the per-document key from the salt and the document's
// content digest.
func DeriveKey(salt []byte, digest string) []byte {
	password := make([]byte, 0, len(salt)+len(digest))
	password = append(password, salt...)
	password = append(password, digest...)
	defer ClearBytes(password)

	return pbkdf2.Key(password, salt, KDFIterations, KeySize, sha256.New)
}

// Transform XORs data with key, cycling the key over the input.
// Applying it twice with the same key returns the original bytes.
func Transform(data, key []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// Digest returns the lowercase hex SHA-256 of data
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
