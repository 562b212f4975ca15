package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/illarion/refguard/internal/archive"
	"github.com/illarion/refguard/internal/core"
	"github.com/illarion/refguard/internal/logging"
	"github.com/illarion/refguard/internal/storage"
	"github.com/illarion/refguard/internal/ui"
)

// DefaultDir is where the archive and salt live unless overridden
const DefaultDir = ".refguard"

// DirEnv overrides DefaultDir
const DirEnv = "REFGUARD_DIR"

// Exit codes
const (
	ExitOK            = 0
	ExitError         = 1
	ExitMissing       = 2 // Archive or salt not found
	ExitDrift         = 3 // Drift found by a read-only command
	ExitCorrupted     = 4 // Archive format or integrity failure
	ExitConfiguration = 5 // Bad input documents or salt
)

// Options are shared by every subcommand
type Options struct {
	Dir     string
	Verbose bool
	Debug   bool
}

// ResolveDir returns the artifact directory from the flag, the environment
// or the default, in that order
func ResolveDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(DirEnv); env != "" {
		return env
	}
	return DefaultDir
}

// Logger builds the logger for the given options
func (o Options) Logger() logging.Logger {
	return logging.Logger{Verbose: o.Verbose, Debug: o.Debug}
}

// Keystore opens the keystore described by the options
func (o Options) Keystore() *core.Keystore {
	ks := core.New(ResolveDir(o.Dir))
	ks.Log = o.Logger()
	return ks
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, core.ErrMissingArtifact):
		return ExitMissing
	case errors.Is(err, core.ErrIntegrity), errors.Is(err, archive.ErrFormat):
		return ExitCorrupted
	case errors.Is(err, core.ErrConfiguration), errors.Is(err, core.ErrSyntax):
		return ExitConfiguration
	default:
		return ExitError
	}
}

// HandleError prints err with a hint and exits
func HandleError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.Error.Sprint("Error:"), err)

	switch {
	case errors.Is(err, core.ErrMissingArtifact):
		fmt.Fprintf(os.Stderr, "Run %s first\n", ui.Code.Sprint("refguard generate <source-dir>"))
	case errors.Is(err, core.ErrIntegrity), errors.Is(err, archive.ErrFormat):
		fmt.Fprintln(os.Stderr, "The keystore is damaged and cannot be used as a reference.")
		fmt.Fprintf(os.Stderr, "Restore it from version control or run %s\n", ui.Code.Sprint("refguard generate"))
	}
	os.Exit(ExitCode(err))
}

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question on the terminal. Default is No.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// startSpinner shows progress during key derivation. It stays silent in
// verbose mode, where the log already reports progress, and when stdout is
// not a terminal.
func startSpinner(message string, opts Options) func() {
	if opts.Verbose || opts.Debug || !isTerminal(os.Stdout) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")
	s.Start()

	return s.Stop
}

// openLedger opens the run history, returning nil when it cannot be used.
// History is best effort and never fails a command.
func openLedger(ks *core.Keystore) *storage.Ledger {
	ledger, err := storage.OpenLedger(ks.LedgerPath())
	if err != nil {
		ks.Log.Warnf("Run history unavailable: %v", err)
		return nil
	}
	return ledger
}

// recordRun stores run in the ledger if possible. A failed run is only
// recorded into an existing ledger, so failing commands create no files.
func recordRun(ks *core.Keystore, run *storage.Run) {
	if run.Error != "" {
		if _, err := os.Stat(ks.LedgerPath()); err != nil {
			ks.Log.Debugf("Not recording failed %s run: no run history yet", run.Kind)
			return
		}
	}

	ledger := openLedger(ks)
	if ledger == nil {
		return
	}
	defer ledger.Close()

	if err := ledger.Record(run); err != nil {
		ks.Log.Warnf("Failed to record run: %v", err)
		return
	}
	ks.Log.Debugf("Recorded %s run %s", run.Kind, run.ID)
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
