package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/refguard/internal/storage"
	"github.com/illarion/refguard/internal/ui"
)

// Generate builds the keystore from the documents in sourceDir
func Generate(opts Options, sourceDir string, force, noHistory bool) {
	ks := opts.Keystore()

	if ks.ArtifactsExist() && !force {
		if !isTerminal(os.Stdin) {
			fmt.Fprintf(os.Stderr, "%s keystore already exists in %s\n", ui.Error.Sprint("Error:"), ui.Path.Sprint(ks.Dir()))
			fmt.Fprintf(os.Stderr, "Use %s to rebuild it\n", ui.Code.Sprint("--force"))
			os.Exit(ExitError)
		}
		if !confirm(fmt.Sprintf("Keystore in %s already exists. Rebuild it?", ks.Dir())) {
			fmt.Println("Cancelled")
			return
		}
	}

	run := &storage.Run{Kind: storage.RunGenerate, Started: time.Now(), Target: sourceDir}

	stop := startSpinner("Encrypting documents...", opts)
	result, err := ks.Generate(sourceDir)
	stop()

	run.Duration = time.Since(run.Started)
	if err != nil {
		run.Error = err.Error()
		if !noHistory {
			recordRun(ks, run)
		}
		HandleError(err)
	}

	run.OK = true
	run.Blocks = result.Blocks
	run.ArchiveSize = result.Size
	if !noHistory {
		recordRun(ks, run)
	}

	if result.SaltCreated {
		fmt.Printf("%s New salt written to %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(ks.SaltPath()))
		fmt.Printf("  Keep it safe: without it the keystore cannot be read. See %s\n", ui.Code.Sprint("refguard keyring save"))
	}
	fmt.Printf("%s Keystore %s created: %d documents, %s\n",
		ui.Success.Sprint("✓"), ui.Path.Sprint(ks.ArchivePath()), result.Blocks, formatSize(result.Size))
}
