package cmd

import (
	"fmt"
	"sort"

	"github.com/illarion/refguard/internal/naming"
	"github.com/illarion/refguard/internal/ui"
)

// List prints every document held in the keystore
func List(opts Options) {
	ks := opts.Keystore()

	stop := startSpinner("Decrypting keystore...", opts)
	blocks, err := ks.List()
	stop()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Keystore %s: %d documents\n", ui.Path.Sprint(ks.ArchivePath()), len(blocks))
	for _, b := range blocks {
		fmt.Printf("  %2d  %-32s %s %s\n", b.Index, b.FileName,
			ui.Muted.Sprint(b.Digest[:12]), ui.Muted.Sprintf("(%s, %q)", formatSize(int64(b.Size)), b.Name))
	}

	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		names = append(names, b.Name)
	}
	groups := naming.Collisions(names)
	for _, file := range sortedKeys(groups) {
		group := groups[file]
		fmt.Printf("\n%s %d documents share %s, only the first is restored: %q\n",
			ui.Warning.Sprint("!"), len(group), ui.Path.Sprint(file), group)
	}
}

// sortedKeys returns the colliding file names in order
func sortedKeys(groups map[string][]string) []string {
	files := make([]string, 0, len(groups))
	for file := range groups {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
