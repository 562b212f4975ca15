package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// ErrLedgerLocked is returned when another process holds the ledger
var ErrLedgerLocked = errors.New("ledger is locked by another process")

// Bucket names
var (
	ConfigBucket = []byte("config") // Ledger version, creation time
	RunsBucket   = []byte("runs")   // Run records, oldest first
)

// Config keys
var (
	ConfigVersion = []byte("version")
	ConfigCreated = []byte("created")
)

const (
	LedgerPerm    = 0600
	MaxLedgerRuns = 200 // Older runs are pruned on Record
	openTimeout   = time.Second
)

// Run kinds
const (
	RunGenerate = "generate"
	RunVerify   = "verify"
	RunCheck    = "check"
)

// RunEntry is one restored (or restorable) document
type RunEntry struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Run records the outcome of one keystore operation
type Run struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"`
	Started     time.Time     `json:"started"`
	Duration    time.Duration `json:"duration"`
	Target      string        `json:"target"`
	Blocks      int           `json:"blocks"`
	ArchiveSize int64         `json:"archiveSize,omitempty"`
	Verified    []string      `json:"verified,omitempty"`
	Restored    []RunEntry    `json:"restored,omitempty"`
	OK          bool          `json:"ok"`
	Error       string        `json:"error,omitempty"`
}

// Ledger provides BBolt-based run history
type Ledger struct {
	db *bolt.DB
}

// OpenLedger opens or creates the ledger database at path.
// The parent directory is created if it does not exist.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := bolt.Open(path, LedgerPerm, &bolt.Options{Timeout: openTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, ErrLedgerLocked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// initialize creates the bucket structure on first use
func (l *Ledger) initialize() error {
	return l.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, RunsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// Created returns the ledger creation time
func (l *Ledger) Created() (time.Time, error) {
	var created time.Time
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigCreated)
		if data == nil {
			return fmt.Errorf("created time not found")
		}
		return created.UnmarshalBinary(data)
	})
	return created, err
}

// Record stores a run, assigning an ID and start time when missing,
// and prunes the oldest runs beyond MaxLedgerRuns.
func (l *Ledger) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Started.IsZero() {
		run.Started = time.Now()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(RunsBucket)
		if err := runs.Put(runKey(run), data); err != nil {
			return err
		}
		return prune(runs, MaxLedgerRuns)
	})
}

// Runs returns up to limit runs, newest first. limit <= 0 returns all.
func (l *Ledger) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(RunsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("failed to unmarshal run: %w", err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

// Last returns the newest run of the given kind, or nil if there is none
func (l *Ledger) Last(kind string) (*Run, error) {
	var last *Run
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(RunsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("failed to unmarshal run: %w", err)
			}
			if run.Kind == kind {
				last = &run
				return nil
			}
		}
		return nil
	})
	return last, err
}

// Count returns the number of stored runs
func (l *Ledger) Count() (int, error) {
	var n int
	err := l.db.View(func(tx *bolt.Tx) error {
		n = countKeys(tx.Bucket(RunsBucket))
		return nil
	})
	return n, err
}

// runKey orders runs by start time, then by ID
func runKey(run *Run) []byte {
	k := make([]byte, 8, 8+len(run.ID))
	binary.BigEndian.PutUint64(k, uint64(run.Started.UnixNano()))
	return append(k, run.ID...)
}

// prune deletes the oldest keys until at most keep remain
func prune(runs *bolt.Bucket, keep int) error {
	excess := countKeys(runs) - keep
	if excess <= 0 {
		return nil
	}

	var stale [][]byte
	c := runs.Cursor()
	for k, _ := c.First(); k != nil && len(stale) < excess; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := runs.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func countKeys(b *bolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}
