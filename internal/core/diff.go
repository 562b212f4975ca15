package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/illarion/refguard/internal/crypto"
)

const (
	// BinarySampleSize is how many leading bytes DetectText inspects
	BinarySampleSize = 8000
	// BinaryThresholdPct is the share of control bytes tolerated in text
	BinaryThresholdPct = 30
)

// DocumentDiff describes how a live document drifted from the archive
type DocumentDiff struct {
	DocumentRef
	Reason string
	Patch  string // Empty for missing documents
}

// Diff reports every drifted document in targetDir together with a line
// diff from the archived bytes to the live bytes. Nothing is written.
func (k *Keystore) Diff(targetDir string) ([]DocumentDiff, error) {
	docs, err := k.readDocuments()
	if err != nil {
		return nil, err
	}

	read, closeFn, err := openReader(targetDir)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var diffs []DocumentDiff
	claimed := make(map[string]bool, len(docs))
	for i := range docs {
		doc := &docs[i]
		if claimed[doc.FileName] {
			continue
		}
		claimed[doc.FileName] = true

		live, err := read(doc.FileName)
		if errors.Is(err, fs.ErrNotExist) {
			diffs = append(diffs, DocumentDiff{DocumentRef: doc.Ref(), Reason: ReasonMissing})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", doc.FileName, err)
		}
		if crypto.Digest(live) == doc.Digest {
			continue
		}

		diffs = append(diffs, DocumentDiff{
			DocumentRef: doc.Ref(),
			Reason:      ReasonContentMismatch,
			Patch:       UnifiedDiff(doc.FileName, doc.Content, live),
		})
	}
	return diffs, nil
}

// DetectText reports whether data looks like text rather than binary
func DetectText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sample := data[:min(len(data), BinarySampleSize)]
	if !utf8.Valid(sample) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if (b < 32 && b != '\t' && b != '\n' && b != '\r') || b == 127 {
			nonPrintable++
		}
	}
	return nonPrintable <= len(sample)*BinaryThresholdPct/100
}

// UnifiedDiff renders a line diff from the archived to the live content.
// It returns an empty string when both are identical.
func UnifiedDiff(name string, archived, live []byte) string {
	if bytes.Equal(archived, live) {
		return ""
	}
	if !DetectText(archived) || !DetectText(live) {
		return fmt.Sprintf("Binary file %s has changed\n", name)
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(archived), string(live))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var result strings.Builder
	fmt.Fprintf(&result, "--- archive/%s\n", name)
	fmt.Fprintf(&result, "+++ live/%s\n", name)
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			result.WriteString(prefix)
			result.WriteString(line)
			result.WriteByte('\n')
		}
	}
	return result.String()
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
