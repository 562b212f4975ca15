package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/refguard/internal/core"
	"github.com/illarion/refguard/internal/storage"
	"github.com/illarion/refguard/internal/ui"
)

// Verify checks the documents in targetDir against the keystore and
// restores the drifted ones. With dryRun nothing is written and drift
// sets the exit status.
func Verify(opts Options, targetDir string, dryRun, noHistory bool) {
	ks := opts.Keystore()

	kind := storage.RunVerify
	if dryRun {
		kind = storage.RunCheck
	}
	run := &storage.Run{Kind: kind, Started: time.Now(), Target: targetDir}

	stop := startSpinner("Verifying documents...", opts)
	var report *core.Report
	var err error
	if dryRun {
		report, err = ks.Check(targetDir)
	} else {
		report, err = ks.VerifyAndRestore(targetDir)
	}
	stop()

	run.Duration = time.Since(run.Started)
	if err != nil {
		run.Error = err.Error()
		if !noHistory {
			recordRun(ks, run)
		}
		HandleError(err)
	}

	run.OK = report.AllOK()
	run.Blocks = report.Total()
	for _, v := range report.Verified {
		run.Verified = append(run.Verified, v.File)
	}
	for _, r := range report.Restored {
		run.Restored = append(run.Restored, storage.RunEntry{File: r.File, Reason: r.Reason})
	}
	if !noHistory {
		recordRun(ks, run)
	}

	printReport(report)

	if dryRun && !report.AllOK() {
		os.Exit(ExitDrift)
	}
}

func printReport(report *core.Report) {
	for _, v := range report.Verified {
		fmt.Printf("  %s %s\n", ui.Success.Sprint("✓"), v.File)
	}

	mark, verb := ui.Warning.Sprint("↻"), "restored"
	if report.DryRun {
		mark, verb = ui.Error.Sprint("✗"), "needs restore"
	}
	for _, r := range report.Restored {
		fmt.Printf("  %s %s %s\n", mark, r.File, ui.Muted.Sprintf("(%s: %s)", verb, r.Reason))
	}
	for _, c := range report.Collisions {
		fmt.Printf("  %s block %d %q %s\n", ui.Warning.Sprint("!"), c.Block, c.Name,
			ui.Muted.Sprintf("(skipped: %s belongs to an earlier block)", c.File))
	}

	fmt.Println()
	switch {
	case report.AllOK():
		fmt.Printf("%s All %d documents verified\n", ui.Success.Sprint("✓"), len(report.Verified))
	case report.DryRun:
		fmt.Printf("%s %d of %d documents drifted. Run %s to repair\n",
			ui.Error.Sprint("✗"), len(report.Restored), report.Total()-len(report.Collisions), ui.Code.Sprint("refguard verify"))
	default:
		fmt.Printf("%s Restored %d documents, %d verified\n",
			ui.Warning.Sprint("↻"), len(report.Restored), len(report.Verified))
	}
}
