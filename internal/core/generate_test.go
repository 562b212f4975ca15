package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/refguard/internal/archive"
	"github.com/illarion/refguard/internal/crypto"
)

func TestGenerate(t *testing.T) {
	ks := newTestKeystore(t)
	docs := filepath.Join(t.TempDir(), "docs")
	writeDocs(t, docs, sampleDocs)

	result, err := ks.Generate(docs)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Blocks != 3 {
		t.Errorf("Expected 3 blocks, got %d", result.Blocks)
	}
	if !result.SaltCreated {
		t.Error("Expected a new salt")
	}

	salt := readFile(t, ks.SaltPath())
	if len(salt) != crypto.SaltSize {
		t.Errorf("Salt should be %d bytes, got %d", crypto.SaltSize, len(salt))
	}

	data := readFile(t, ks.ArchivePath())
	if int64(len(data)) != result.Size {
		t.Errorf("Reported size %d, archive has %d bytes", result.Size, len(data))
	}

	blocks, err := archive.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("Header says 3 blocks, decoded %d", len(blocks))
	}

	// Blocks follow sorted file order and carry the plaintext digest
	for i, name := range []string{"alpha.json", "beta.json", "gamma.json"} {
		want := crypto.Digest([]byte(sampleDocs[name]))
		if blocks[i].Digest != want {
			t.Errorf("Block %d digest = %s, want digest of %s", i, blocks[i].Digest, name)
		}
		if string(blocks[i].Data) == sampleDocs[name] {
			t.Errorf("Block %d stored in plaintext", i)
		}
	}
}

func TestGenerateReusesSalt(t *testing.T) {
	ks, docs := setupGenerated(t)
	salt := readFile(t, ks.SaltPath())
	first := readFile(t, ks.ArchivePath())

	result, err := ks.Generate(docs)
	if err != nil {
		t.Fatalf("Second Generate failed: %v", err)
	}
	if result.SaltCreated {
		t.Error("Existing salt should be reused")
	}
	if string(readFile(t, ks.SaltPath())) != string(salt) {
		t.Error("Salt changed on regenerate")
	}
	// Same salt and same documents produce the same archive
	if string(readFile(t, ks.ArchivePath())) != string(first) {
		t.Error("Archive is not deterministic for a fixed salt")
	}
}

func TestGenerateNoDocuments(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, map[string]string{"readme.txt": "not a document"})

	_, err := ks.Generate(docs)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration, got %v", err)
	}
	if _, err := os.Stat(ks.ArchivePath()); !os.IsNotExist(err) {
		t.Error("Archive should not be created")
	}
	if _, err := os.Stat(ks.SaltPath()); !os.IsNotExist(err) {
		t.Error("Salt should not be created")
	}
}

func TestGenerateMissingSourceDir(t *testing.T) {
	ks := newTestKeystore(t)
	_, err := ks.Generate(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration, got %v", err)
	}
}

func TestGenerateMaxDocuments(t *testing.T) {
	if testing.Short() {
		t.Skip("derives 99 keys")
	}
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeNumberedDocs(t, docs, archive.MaxBlocks)

	result, err := ks.Generate(docs)
	if err != nil {
		t.Fatalf("Generate with %d documents failed: %v", archive.MaxBlocks, err)
	}
	if result.Blocks != archive.MaxBlocks {
		t.Errorf("Expected %d blocks, got %d", archive.MaxBlocks, result.Blocks)
	}

	status, err := ks.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Blocks != archive.MaxBlocks {
		t.Errorf("Header declares %d blocks, want %d", status.Blocks, archive.MaxBlocks)
	}
}

func TestGenerateTooManyDocuments(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeNumberedDocs(t, docs, archive.MaxBlocks+1)

	_, err := ks.Generate(docs)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration, got %v", err)
	}
	if _, err := os.Stat(ks.ArchivePath()); !os.IsNotExist(err) {
		t.Error("Archive should not be created")
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, map[string]string{
		"good.json":   `{"name": "good"}`,
		"broken.json": `{"name": `,
	})

	_, err := ks.Generate(docs)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Expected ErrSyntax, got %v", err)
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) || syntaxErr.Path != "broken.json" {
		t.Errorf("Error should name broken.json, got %v", err)
	}
	if _, err := os.Stat(ks.ArchivePath()); !os.IsNotExist(err) {
		t.Error("Archive should not be created")
	}
	if _, err := os.Stat(ks.SaltPath()); !os.IsNotExist(err) {
		t.Error("Salt should not be created when generation fails")
	}
}

func TestGenerateDocumentSizeLimit(t *testing.T) {
	pad := func(n int) string {
		// {"name":"big","pad":"xxx..."} padded to exactly n bytes
		prefix := `{"name":"big","pad":"`
		suffix := `"}`
		b := make([]byte, n-len(prefix)-len(suffix))
		for i := range b {
			b[i] = 'x'
		}
		return prefix + string(b) + suffix
	}

	t.Run("at limit", func(t *testing.T) {
		ks := newTestKeystore(t)
		docs := t.TempDir()
		writeDocs(t, docs, map[string]string{"big.json": pad(archive.MaxBlockSize)})

		if _, err := ks.Generate(docs); err != nil {
			t.Fatalf("Document of %d bytes should be accepted: %v", archive.MaxBlockSize, err)
		}
		list, err := ks.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 || list[0].Size != archive.MaxBlockSize {
			t.Errorf("Unexpected listing: %+v", list)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		ks := newTestKeystore(t)
		docs := t.TempDir()
		writeDocs(t, docs, map[string]string{"big.json": pad(archive.MaxBlockSize + 1)})

		_, err := ks.Generate(docs)
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected ErrConfiguration, got %v", err)
		}
		if _, err := os.Stat(ks.ArchivePath()); !os.IsNotExist(err) {
			t.Error("Archive should not be created")
		}
	})
}

func TestGenerateRejectsCollisions(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, map[string]string{
		"cafe.json":  `{"name": "Café"}`,
		"cafe2.json": `{"name": "cafe"}`,
	})

	_, err := ks.Generate(docs)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration for colliding names, got %v", err)
	}
}

func TestGenerateBadSalt(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, sampleDocs)

	if err := os.MkdirAll(ks.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ks.SaltPath(), []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ks.Generate(docs)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration, got %v", err)
	}
}

func TestGenerateUnnamedDocuments(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, map[string]string{
		"a.json": `["no", "name"]`,
		"b.json": `{"name": 42}`,
	})

	if _, err := ks.Generate(docs); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	list, err := ks.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(list))
	}
	if list[0].Name != "Unknown_0" || list[0].FileName != "unknown_0.json" {
		t.Errorf("Block 0 = %q/%q", list[0].Name, list[0].FileName)
	}
	if list[1].Name != "Unknown_1" || list[1].FileName != "unknown_1.json" {
		t.Errorf("Block 1 = %q/%q", list[1].Name, list[1].FileName)
	}
}

func TestGenerateArchiveWriteFailureLeavesNoSalt(t *testing.T) {
	ks := newTestKeystore(t)
	docs := t.TempDir()
	writeDocs(t, docs, sampleDocs)

	// A non-empty directory where the archive goes makes the final rename fail
	if err := os.MkdirAll(filepath.Join(ks.ArchivePath(), "occupied"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := ks.Generate(docs); err == nil {
		t.Fatal("Generate should fail when the archive cannot be written")
	}
	if _, err := os.Stat(ks.SaltPath()); !os.IsNotExist(err) {
		t.Error("New salt must be removed when the archive write fails")
	}
}

func TestGenerateArchiveWriteFailureKeepsExistingSalt(t *testing.T) {
	ks, docs := setupGenerated(t)
	salt := readFile(t, ks.SaltPath())

	if err := os.Remove(ks.ArchivePath()); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(ks.ArchivePath(), "occupied"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := ks.Generate(docs); err == nil {
		t.Fatal("Generate should fail when the archive cannot be written")
	}
	if string(readFile(t, ks.SaltPath())) != string(salt) {
		t.Error("Existing salt must survive a failed rebuild")
	}
}
