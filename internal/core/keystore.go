package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/illarion/refguard/internal/archive"
	"github.com/illarion/refguard/internal/crypto"
	"github.com/illarion/refguard/internal/logging"
	"github.com/illarion/refguard/internal/naming"
	"github.com/illarion/refguard/internal/storage"
)

const (
	SaltFile    = "salt.key"
	ArchiveFile = "refs.kst"
	LedgerFile  = "history.db" // Local run history, not shipped
	DirPerm     = 0755
	FilePerm    = 0644
)

// Keystore manages one archive/salt pair
type Keystore struct {
	dir         string
	archivePath string
	salt        *storage.SaltStore

	Log logging.Logger
}

// New creates a Keystore for the artifacts in dir
func New(dir string) *Keystore {
	return &Keystore{
		dir:         dir,
		archivePath: filepath.Join(dir, ArchiveFile),
		salt:        storage.NewSaltStore(filepath.Join(dir, SaltFile)),
	}
}

// Dir returns the artifact directory
func (k *Keystore) Dir() string {
	return k.dir
}

// ArchivePath returns the archive file location
func (k *Keystore) ArchivePath() string {
	return k.archivePath
}

// SaltPath returns the salt file location
func (k *Keystore) SaltPath() string {
	return k.salt.Path()
}

// LedgerPath returns the run history location
func (k *Keystore) LedgerPath() string {
	return filepath.Join(k.dir, LedgerFile)
}

// ReadSalt returns the salt, or nil if it has not been generated
func (k *Keystore) ReadSalt() ([]byte, error) {
	return k.salt.Read()
}

// WriteSalt replaces the salt file
func (k *Keystore) WriteSalt(salt []byte) error {
	if len(salt) != crypto.SaltSize {
		return &ConfigurationError{
			Path:    k.SaltPath(),
			Message: fmt.Sprintf("invalid salt (expected %d bytes, got %d)", crypto.SaltSize, len(salt)),
		}
	}
	return k.salt.Write(salt)
}

// ArtifactsExist reports whether the archive or the salt is present
func (k *Keystore) ArtifactsExist() bool {
	if _, err := os.Stat(k.archivePath); err == nil {
		return true
	}
	return k.salt.Exists()
}

// Document is one decrypted and self-checked archive block
type Document struct {
	Index    int
	Name     string // Semantic name from the document body
	FileName string // Canonical on-disk file name
	Digest   string
	Content  []byte
}

// Ref returns the identifying part of the document
func (d *Document) Ref() DocumentRef {
	return DocumentRef{Block: d.Index, Name: d.Name, File: d.FileName}
}

// loadArtifacts reads and validates the salt and the raw archive
func (k *Keystore) loadArtifacts() ([]byte, []byte, error) {
	if _, err := os.Stat(k.archivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &MissingArtifactError{Artifact: ArtifactArchive, Path: k.archivePath}
		}
		return nil, nil, fmt.Errorf("failed to access archive: %w", err)
	}

	salt, err := k.salt.Read()
	if err != nil {
		return nil, nil, err
	}
	if salt == nil {
		return nil, nil, &MissingArtifactError{Artifact: ArtifactSalt, Path: k.SaltPath()}
	}
	if len(salt) != crypto.SaltSize {
		return nil, nil, &ConfigurationError{
			Path:    k.SaltPath(),
			Message: fmt.Sprintf("invalid salt (expected %d bytes, got %d)", crypto.SaltSize, len(salt)),
		}
	}

	data, err := os.ReadFile(k.archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return salt, data, nil
}

// readDocuments decodes, decrypts and self-checks every block.
// Any failure aborts before the caller touches a document directory.
func (k *Keystore) readDocuments() ([]Document, error) {
	salt, data, err := k.loadArtifacts()
	if err != nil {
		return nil, err
	}

	dec := archive.NewDecoder(data)
	count, err := dec.ReadHeader()
	if err != nil {
		return nil, err
	}
	k.Log.Infof("Keystore contains %d documents", count)

	docs := make([]Document, 0, count)
	for i := 0; i < count; i++ {
		offset := dec.Offset()
		block, err := dec.Next()
		if err != nil {
			return nil, err
		}
		k.Log.Debugf("Block %d at offset %d: %d bytes", i, offset, len(block.Data))

		key := crypto.DeriveKey(salt, block.Digest)
		content := crypto.Transform(block.Data, key)
		crypto.ClearBytes(key)

		if actual := crypto.Digest(content); actual != block.Digest {
			k.Log.Errorf("Block %d decryption failed: digest mismatch", i)
			return nil, &IntegrityError{Block: i, Expected: block.Digest, Actual: actual}
		}

		name, err := documentName(content, i)
		if err != nil {
			return nil, &SyntaxError{Block: i, Err: err}
		}

		docs = append(docs, Document{
			Index:    i,
			Name:     name,
			FileName: naming.CanonicalFileName(name),
			Digest:   block.Digest,
			Content:  content,
		})
	}

	if rest := dec.Remaining(); rest > 0 {
		k.Log.Warnf("Keystore has %d trailing bytes after the last block", rest)
	}
	return docs, nil
}
