package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/illarion/refguard/internal/naming"
)

// documentName validates a JSON document and returns its semantic name.
// Documents without a string "name" field are named Unknown_<index>.
func documentName(data []byte, index int) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("not valid UTF-8")
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return "", err
	}

	if obj, ok := body.(map[string]any); ok {
		if name, ok := obj["name"].(string); ok {
			return name, nil
		}
	}
	return fmt.Sprintf("Unknown_%d", index), nil
}

// listDocuments returns the *.json files in dir sorted by file name
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationError{Path: dir, Message: "document directory not found", Err: err}
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	// os.ReadDir sorts by file name
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), naming.Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
