package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/illarion/refguard/internal/core"
	"github.com/illarion/refguard/internal/ui"
)

// Diff shows how the documents in targetDir drifted from the keystore
func Diff(opts Options, targetDir string) {
	ks := opts.Keystore()

	stop := startSpinner("Decrypting keystore...", opts)
	diffs, err := ks.Diff(targetDir)
	stop()
	if err != nil {
		HandleError(err)
	}

	if len(diffs) == 0 {
		fmt.Printf("%s No drift\n", ui.Success.Sprint("✓"))
		return
	}

	for _, d := range diffs {
		if d.Reason == core.ReasonMissing {
			fmt.Printf("%s %s\n\n", ui.Error.Sprint("missing:"), ui.Path.Sprint(d.File))
			continue
		}
		printPatch(d.Patch)
		fmt.Println()
	}
	os.Exit(ExitDrift)
}

func printPatch(patch string) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	bold := color.New(color.Bold)

	for _, line := range strings.Split(strings.TrimSuffix(patch, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			bold.Println(line)
		case strings.HasPrefix(line, "-"):
			red.Println(line)
		case strings.HasPrefix(line, "+"):
			green.Println(line)
		default:
			fmt.Println(line)
		}
	}
}
