package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/refguard/internal/core"
	"github.com/illarion/refguard/internal/git"
	"github.com/illarion/refguard/internal/keyring"
	"github.com/illarion/refguard/internal/storage"
	"github.com/illarion/refguard/internal/ui"
)

const statusHistory = 5

// Status shows the keystore state without decrypting anything
func Status(opts Options) {
	ks := opts.Keystore()

	status, err := ks.Status()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Keystore directory: %s\n\n", ui.Path.Sprint(status.Dir))

	if !status.ArchiveExists && !status.SaltExists {
		fmt.Println("No keystore found")
		fmt.Printf("Run %s to create one\n", ui.Code.Sprint("refguard generate <source-dir>"))
		return
	}

	switch {
	case !status.ArchiveExists:
		fmt.Printf("  %s %s: missing\n", ui.Error.Sprint("✗"), core.ArchiveFile)
	case status.HeaderErr != nil:
		fmt.Printf("  %s %s: corrupted (%s)\n", ui.Error.Sprint("✗"), core.ArchiveFile, status.HeaderErr)
	default:
		fmt.Printf("  %s %s: %d documents, %s, modified %s\n", ui.Success.Sprint("✓"), core.ArchiveFile,
			status.Blocks, formatSize(status.ArchiveSize), status.ModTime.Format(time.RFC3339))
	}

	switch {
	case !status.SaltExists:
		fmt.Printf("  %s %s: missing\n", ui.Error.Sprint("✗"), core.SaltFile)
	case !status.SaltValid:
		fmt.Printf("  %s %s: invalid (%d bytes)\n", ui.Error.Sprint("✗"), core.SaltFile, status.SaltSize)
	default:
		fmt.Printf("  %s %s: %d bytes\n", ui.Success.Sprint("✓"), core.SaltFile, status.SaltSize)
	}

	if id, err := keyring.KeystoreID(ks.Dir()); err == nil {
		if keyring.HasSalt(id) {
			fmt.Printf("  %s salt escrowed in keyring\n", ui.Success.Sprint("✓"))
		} else {
			fmt.Printf("  %s salt not escrowed %s\n", ui.Muted.Sprint("-"), ui.Muted.Sprint("(refguard keyring save)"))
		}
	}

	printHistory(ks)

	if status.ArchiveExists {
		gitStatus, err := git.CheckArtifacts(ks.Dir(), []string{core.ArchiveFile, core.SaltFile})
		if err == nil {
			fmt.Print(git.FormatGitStatus(gitStatus))
		}
	}
}

func printHistory(ks *core.Keystore) {
	if _, err := os.Stat(ks.LedgerPath()); err != nil {
		return
	}
	ledger := openLedger(ks)
	if ledger == nil {
		return
	}
	defer ledger.Close()

	runs, err := ledger.Runs(statusHistory)
	if err != nil || len(runs) == 0 {
		return
	}
	total, _ := ledger.Count()
	since, _ := ledger.Created()

	fmt.Printf("\nRecent runs (%d recorded since %s):\n", total, since.Format("2006-01-02"))
	for _, run := range runs {
		outcome := ui.Success.Sprint("ok")
		switch {
		case run.Error != "":
			outcome = ui.Error.Sprint("failed")
		case !run.OK && run.Kind == storage.RunVerify:
			outcome = ui.Warning.Sprintf("restored %d", len(run.Restored))
		case !run.OK:
			outcome = ui.Warning.Sprintf("drift %d", len(run.Restored))
		}
		fmt.Printf("   %s  %-8s %-12s %s\n", run.Started.Format("2006-01-02 15:04:05"), run.Kind, outcome,
			ui.Muted.Sprint(run.Target))
	}

	if last, err := ledger.Last(storage.RunVerify); err == nil && last != nil && last.OK {
		fmt.Printf("   Last clean verify: %s\n", last.Started.Format(time.RFC3339))
	}
}
