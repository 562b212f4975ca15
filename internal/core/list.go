package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/illarion/refguard/internal/archive"
	"github.com/illarion/refguard/internal/crypto"
)

// BlockInfo describes one archived document
type BlockInfo struct {
	Index    int
	Name     string
	FileName string
	Digest   string
	Size     int
}

// List decrypts and self-checks every block and describes its document
func (k *Keystore) List() ([]BlockInfo, error) {
	docs, err := k.readDocuments()
	if err != nil {
		return nil, err
	}

	infos := make([]BlockInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, BlockInfo{
			Index:    doc.Index,
			Name:     doc.Name,
			FileName: doc.FileName,
			Digest:   doc.Digest,
			Size:     len(doc.Content),
		})
	}
	return infos, nil
}

// StatusInfo summarizes the artifacts without decrypting anything
type StatusInfo struct {
	Dir string

	ArchiveExists bool
	ArchiveSize   int64
	ModTime       time.Time
	Blocks        int   // From the header, -1 if unreadable
	HeaderErr     error // Why the header could not be read

	SaltExists bool
	SaltValid  bool
	SaltSize   int
}

// Status inspects the artifact directory
func (k *Keystore) Status() (*StatusInfo, error) {
	info := &StatusInfo{Dir: k.dir, Blocks: -1}

	st, err := os.Stat(k.archivePath)
	switch {
	case err == nil:
		info.ArchiveExists = true
		info.ArchiveSize = st.Size()
		info.ModTime = st.ModTime()
		info.Blocks, info.HeaderErr = readHeader(k.archivePath)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to access archive: %w", err)
	}

	salt, err := k.salt.Read()
	if err != nil {
		return nil, err
	}
	if salt != nil {
		info.SaltExists = true
		info.SaltSize = len(salt)
		info.SaltValid = len(salt) == crypto.SaltSize
		crypto.ClearBytes(salt)
	}
	return info, nil
}

// Ready reports whether both artifacts are present and the salt is usable
func (s *StatusInfo) Ready() bool {
	return s.ArchiveExists && s.SaltValid && s.HeaderErr == nil
}

func readHeader(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return -1, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	buf := make([]byte, archive.HeaderSize)
	n, _ := f.Read(buf)
	count, err := archive.NewDecoder(buf[:n]).ReadHeader()
	if err != nil {
		return -1, err
	}
	return count, nil
}
