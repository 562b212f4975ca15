package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/refguard/internal/logging"
)

var sampleDocs = map[string]string{
	"alpha.json": `{"name": "alpha", "value": 1}`,
	"beta.json":  `{"name": "beta", "value": 2}`,
	"gamma.json": `{"name": "gamma", "value": 3}`,
}

func newTestKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks := New(filepath.Join(t.TempDir(), "keystore"))
	ks.Log = logging.Discard()
	return ks
}

func writeDocs(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func writeNumberedDocs(t *testing.T, dir string, n int) {
	t.Helper()
	docs := make(map[string]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("doc_%03d", i)
		docs[name+".json"] = fmt.Sprintf(`{"name": %q}`, name)
	}
	writeDocs(t, dir, docs)
}

// setupGenerated builds an archive from sampleDocs and returns the
// keystore and the document directory
func setupGenerated(t *testing.T) (*Keystore, string) {
	t.Helper()
	ks := newTestKeystore(t)
	docs := filepath.Join(t.TempDir(), "docs")
	writeDocs(t, docs, sampleDocs)

	if _, err := ks.Generate(docs); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return ks, docs
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

// snapshot records every file in dir with its content
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		files[e.Name()] = string(readFile(t, filepath.Join(dir, e.Name())))
	}
	return files
}

func assertSnapshot(t *testing.T, dir string, want map[string]string) {
	t.Helper()
	got := snapshot(t, dir)
	if len(got) != len(want) {
		t.Fatalf("Expected %d files in %s, got %d", len(want), dir, len(got))
	}
	for name, content := range want {
		if got[name] != content {
			t.Errorf("%s was modified: got %q, want %q", name, got[name], content)
		}
	}
}
