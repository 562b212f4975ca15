package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/illarion/refguard/internal/crypto"
	"github.com/illarion/refguard/internal/security"
)

// pendingWrite is a restoration decided during planning
type pendingWrite struct {
	file string
	data []byte
}

// VerifyAndRestore compares every archived document with its live copy in
// targetDir and rewrites the ones that are missing or modified.
//
// All blocks are decoded and self-checked before any file is written, so a
// damaged archive leaves targetDir untouched. Drift is reported, not
// returned as an error.
func (k *Keystore) VerifyAndRestore(targetDir string) (*Report, error) {
	k.Log.Infof("Verifying documents integrity...")

	docs, err := k.readDocuments()
	if err != nil {
		return nil, err
	}

	target, err := security.OpenTargetDir(targetDir, DirPerm)
	if err != nil {
		return nil, err
	}
	defer target.Close()
	k.Log.Debugf("Target directory: %s", target.Path())

	report, pending, err := k.plan(docs, target.ReadFile)
	if err != nil {
		return nil, err
	}

	for i, p := range pending {
		if err := target.WriteFile(p.file, p.data, FilePerm); err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", p.file, err)
		}
		r := report.Restored[i]
		k.Log.Infof("%s - RESTORED (%s)", r.File, r.Reason)
		k.Log.Debugf("Wrote %d bytes to %s", len(p.data), target.Join(p.file))
	}

	k.logSummary(report)
	return report, nil
}

// Check performs the verification pass without writing anything
func (k *Keystore) Check(targetDir string) (*Report, error) {
	k.Log.Infof("Checking documents integrity...")

	docs, err := k.readDocuments()
	if err != nil {
		return nil, err
	}

	read, closeFn, err := openReader(targetDir)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	report, _, err := k.plan(docs, read)
	if err != nil {
		return nil, err
	}
	report.DryRun = true

	for _, r := range report.Restored {
		k.Log.Infof("%s - would restore (%s)", r.File, r.Reason)
	}
	k.logSummary(report)
	return report, nil
}

// plan classifies every document against its live copy.
// The first block claiming a file name wins; later blocks mapping to the
// same name are reported as collisions and never written.
func (k *Keystore) plan(docs []Document, read func(string) ([]byte, error)) (*Report, []pendingWrite, error) {
	report := &Report{}
	var pending []pendingWrite
	claimed := make(map[string]int, len(docs))

	for i := range docs {
		doc := &docs[i]

		if first, ok := claimed[doc.FileName]; ok {
			k.Log.Infof("Block %d (%q) maps to %s, already claimed by block %d: skipped", doc.Index, doc.Name, doc.FileName, first)
			report.Collisions = append(report.Collisions, doc.Ref())
			continue
		}
		claimed[doc.FileName] = doc.Index

		live, err := read(doc.FileName)
		switch {
		case err == nil:
			if crypto.Digest(live) == doc.Digest {
				report.Verified = append(report.Verified, doc.Ref())
				k.Log.Debugf("%s - intact", doc.FileName)
				continue
			}
			report.Restored = append(report.Restored, Restoration{DocumentRef: doc.Ref(), Reason: ReasonContentMismatch})
		case errors.Is(err, fs.ErrNotExist):
			report.Restored = append(report.Restored, Restoration{DocumentRef: doc.Ref(), Reason: ReasonMissing})
		default:
			return nil, nil, fmt.Errorf("failed to read %s: %w", doc.FileName, err)
		}
		pending = append(pending, pendingWrite{file: doc.FileName, data: doc.Content})
	}

	return report, pending, nil
}

func (k *Keystore) logSummary(report *Report) {
	if report.AllOK() {
		k.Log.Infof("All %d documents verified OK", len(report.Verified))
		return
	}
	verb := "Restored"
	if report.DryRun {
		verb = "Would restore"
	}
	k.Log.Infof("%s %d documents, %d verified OK", verb, len(report.Restored), len(report.Verified))
}

// openReader returns a read function over targetDir without creating it.
// A missing directory reads as if every document were missing.
func openReader(targetDir string) (func(string) ([]byte, error), func(), error) {
	if _, err := os.Stat(targetDir); errors.Is(err, fs.ErrNotExist) {
		missing := func(name string) ([]byte, error) {
			if err := security.ValidateName(name); err != nil {
				return nil, err
			}
			return nil, fs.ErrNotExist
		}
		return missing, func() {}, nil
	}

	target, err := security.OpenTargetDir(targetDir, DirPerm)
	if err != nil {
		return nil, nil, err
	}
	return target.ReadFile, func() { target.Close() }, nil
}
