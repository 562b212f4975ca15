package core

// Restoration reasons
const (
	ReasonMissing         = "missing"
	ReasonContentMismatch = "content mismatch"
)

// DocumentRef identifies an archived document
type DocumentRef struct {
	Block int    // Archive block index
	Name  string // Semantic name
	File  string // Canonical file name
}

// Restoration is a drifted document and why it was (or would be) rewritten
type Restoration struct {
	DocumentRef
	Reason string
}

// Report is the outcome of a verification pass.
// In a dry run Restored lists what would have been rewritten.
type Report struct {
	Verified   []DocumentRef
	Restored   []Restoration
	Collisions []DocumentRef // Blocks skipped because an earlier block claimed the file
	DryRun     bool
}

// AllOK reports whether every document was intact
func (r *Report) AllOK() bool {
	return len(r.Restored) == 0
}

// Total returns the number of archived documents considered
func (r *Report) Total() int {
	return len(r.Verified) + len(r.Restored) + len(r.Collisions)
}
