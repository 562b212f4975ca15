package keyring

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "refguard"

// KeystoreID derives a stable keyring account name from the artifact directory
func KeystoreID(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve keystore directory: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return "keystore-" + hex.EncodeToString(sum[:8]), nil
}

// SaveSalt stores a salt in the OS keyring
func SaveSalt(keystoreID string, salt []byte) error {
	return keyring.Set(serviceName, keystoreID, base64.StdEncoding.EncodeToString(salt))
}

// GetSalt retrieves a salt from the OS keyring
func GetSalt(keystoreID string) ([]byte, error) {
	encoded, err := keyring.Get(serviceName, keystoreID)
	if err != nil {
		return nil, err
	}
	salt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("escrowed salt is corrupted: %w", err)
	}
	return salt, nil
}

// DeleteSalt removes a salt from the OS keyring
func DeleteSalt(keystoreID string) error {
	return keyring.Delete(serviceName, keystoreID)
}

// HasSalt checks if a salt is stored in the keyring
func HasSalt(keystoreID string) bool {
	_, err := keyring.Get(serviceName, keystoreID)
	return err == nil
}

// IsNotFound reports whether err means nothing was escrowed
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrNotFound)
}
