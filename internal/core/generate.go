package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/refguard/internal/archive"
	"github.com/illarion/refguard/internal/crypto"
	"github.com/illarion/refguard/internal/naming"
)

// GenerateResult describes a freshly written archive
type GenerateResult struct {
	Blocks      int
	Size        int64
	SaltCreated bool
}

// Generate builds the archive from every *.json document in sourceDir.
// The existing salt is reused; a new one is generated when absent. Any
// failure aborts before the archive is written.
func (k *Keystore) Generate(sourceDir string) (*GenerateResult, error) {
	k.Log.Infof("Generating keystore from: %s", sourceDir)

	files, err := listDocuments(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &ConfigurationError{Path: sourceDir, Message: "no documents found"}
	}
	if len(files) > archive.MaxBlocks {
		return nil, &ConfigurationError{
			Path:    sourceDir,
			Message: fmt.Sprintf("too many documents: %d (max %d)", len(files), archive.MaxBlocks),
		}
	}
	k.Log.Infof("Found %d documents", len(files))

	salt, saltCreated, err := k.loadOrCreateSalt()
	if err != nil {
		return nil, err
	}

	blocks := make([]archive.Block, 0, len(files))
	owners := make(map[string]string, len(files))

	for i, path := range files {
		base := filepath.Base(path)
		k.Log.Debugf("Processing: %s", base)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", base, err)
		}

		// XOR keeps the length, so the plaintext size is the block size
		if len(data) > archive.MaxBlockSize {
			return nil, &ConfigurationError{
				Path:    base,
				Message: fmt.Sprintf("document is %d bytes (max %d)", len(data), archive.MaxBlockSize),
			}
		}

		name, err := documentName(data, i)
		if err != nil {
			return nil, &SyntaxError{Path: base, Block: -1, Err: err}
		}

		fileName := naming.CanonicalFileName(name)
		if owner, ok := owners[fileName]; ok {
			return nil, &ConfigurationError{
				Path:    base,
				Message: fmt.Sprintf("document name %q maps to %s, already used by %s", name, fileName, owner),
			}
		}
		owners[fileName] = base
		if fileName != base {
			k.Log.Warnf("%s: document name %q maps to %s, restores will use that file name", base, name, fileName)
		}

		digest := crypto.Digest(data)
		key := crypto.DeriveKey(salt, digest)
		encrypted := crypto.Transform(data, key)
		crypto.ClearBytes(key)

		block := archive.Block{Digest: digest, Data: encrypted}
		blocks = append(blocks, block)
		k.Log.Debugf("Created block %d: SHA256=%s... size=%d bytes", i, short(digest), block.EncodedSize())
	}

	data, err := archive.Encode(blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keystore: %w", err)
	}

	if saltCreated {
		if err := k.salt.Write(salt); err != nil {
			return nil, err
		}
		k.Log.Infof("%s created (%d bytes)", SaltFile, len(salt))
	}

	if err := writeFileAtomic(k.archivePath, data, FilePerm); err != nil {
		// A fresh salt must not outlive a failed build
		if saltCreated {
			if rmErr := k.salt.Remove(); rmErr != nil {
				k.Log.Errorf("Failed to remove new salt %s: %v", k.SaltPath(), rmErr)
			}
		}
		return nil, fmt.Errorf("failed to write keystore: %w", err)
	}
	k.Log.Infof("%s created: %d documents, %d bytes", ArchiveFile, len(blocks), len(data))

	return &GenerateResult{
		Blocks:      len(blocks),
		Size:        int64(len(data)),
		SaltCreated: saltCreated,
	}, nil
}

// loadOrCreateSalt returns the stored salt, or a new in-memory salt that the
// caller persists once the archive is ready
func (k *Keystore) loadOrCreateSalt() ([]byte, bool, error) {
	salt, err := k.salt.Read()
	if err != nil {
		return nil, false, err
	}
	if salt != nil {
		if len(salt) != crypto.SaltSize {
			return nil, false, &ConfigurationError{
				Path:    k.SaltPath(),
				Message: fmt.Sprintf("invalid salt (expected %d bytes, got %d)", crypto.SaltSize, len(salt)),
			}
		}
		k.Log.Debugf("Using existing salt")
		return salt, false, nil
	}

	k.Log.Infof("Generating new salt...")
	salt, err = crypto.GenerateSalt()
	if err != nil {
		return nil, false, err
	}
	return salt, true, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial archive
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
