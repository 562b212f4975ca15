package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/refguard/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(cmd.ExitError)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "ls":
		runLs(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(cmd.ExitError)
	}
}

// newFlagSet registers the flags shared by every subcommand
func newFlagSet(name string) (*flag.FlagSet, *cmd.Options) {
	opts := &cmd.Options{}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&opts.Dir, "dir", "", "Keystore directory (default $"+cmd.DirEnv+" or "+cmd.DefaultDir+")")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&opts.Debug, "debug", false, "Debug output")
	fs.Usage = func() { printCommandHelp(name) }
	return fs, opts
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cmd.ExitError)
	}
}

// singleArg returns the one positional argument or exits with usage
func singleArg(fs *flag.FlagSet, what string) string {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s\n\n", what)
		printCommandHelp(fs.Name())
		os.Exit(cmd.ExitError)
	}
	return fs.Arg(0)
}

func runGenerate(args []string) {
	fs, opts := newFlagSet("generate")
	force := fs.Bool("force", false, "Rebuild an existing keystore without confirmation")
	noHistory := fs.Bool("no-history", false, "Do not record the run")
	parse(fs, args)

	cmd.Generate(*opts, singleArg(fs, "source directory"), *force, *noHistory)
}

func runVerify(args []string) {
	fs, opts := newFlagSet("verify")
	dryRun := fs.Bool("dry-run", false, "Report drift without restoring")
	noHistory := fs.Bool("no-history", false, "Do not record the run")
	parse(fs, args)

	cmd.Verify(*opts, singleArg(fs, "target directory"), *dryRun, *noHistory)
}

func runDiff(args []string) {
	fs, opts := newFlagSet("diff")
	parse(fs, args)

	cmd.Diff(*opts, singleArg(fs, "target directory"))
}

func runLs(args []string) {
	fs, opts := newFlagSet("ls")
	parse(fs, args)

	cmd.List(*opts)
}

func runStatus(args []string) {
	fs, opts := newFlagSet("status")
	parse(fs, args)

	cmd.Status(*opts)
}

func runKeyring(args []string) {
	fs, opts := newFlagSet("keyring")
	force := fs.Bool("force", false, "Overwrite a differing salt file on restore")
	parse(fs, args)

	switch singleArg(fs, "keyring subcommand") {
	case "save":
		cmd.KeyringSave(*opts)
	case "restore":
		cmd.KeyringRestore(*opts, *force)
	case "delete":
		cmd.KeyringDelete(*opts)
	case "status":
		cmd.KeyringStatus(*opts)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", fs.Arg(0))
		printCommandHelp("keyring")
		os.Exit(cmd.ExitError)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: refguard completion <bash|zsh|fish>")
		os.Exit(cmd.ExitError)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("refguard - Tamper-evident keystore for reference documents")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  refguard <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate    Build the keystore from a directory of JSON documents")
	fmt.Println("  verify      Verify documents and restore missing or modified ones")
	fmt.Println("  diff        Show how documents drifted from the keystore")
	fmt.Println("  ls          List documents held in the keystore")
	fmt.Println("  status      Show keystore status and run history")
	fmt.Println("  keyring     Escrow the salt in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Flags accepted by every command:")
	fmt.Println("  --dir <path>  Keystore directory (default $REFGUARD_DIR or .refguard)")
	fmt.Println("  --verbose     Verbose output")
	fmt.Println("  --debug       Debug output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  refguard generate ./references        # Build keystore")
	fmt.Println("  refguard verify ./references          # Repair drifted documents")
	fmt.Println("  refguard verify --dry-run ./data      # Report drift only")
	fmt.Println()
	fmt.Println("Use 'refguard help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "generate":
		fmt.Println("refguard generate [--force] [--no-history] <source-dir>")
		fmt.Println()
		fmt.Println("Encrypts every *.json document in <source-dir> into the keystore.")
		fmt.Println("Each document needs a \"name\" field; it decides the file name used on restore.")
		fmt.Println("The existing salt is reused, a new one is created on first run.")
		fmt.Println("At most 99 documents of up to 99,999 bytes each are accepted.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --force        Rebuild an existing keystore without confirmation")
		fmt.Println("  --no-history   Do not record the run")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  refguard generate ./references")
		fmt.Println("  refguard generate --force --dir assets/keystore ./references")
	case "verify":
		fmt.Println("refguard verify [--dry-run] [--no-history] <target-dir>")
		fmt.Println()
		fmt.Println("Compares every archived document with its copy in <target-dir>.")
		fmt.Println("Missing or modified documents are rewritten from the keystore.")
		fmt.Println("Nothing is written if the keystore itself is damaged.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --dry-run      Report drift without restoring (exit status 3 on drift)")
		fmt.Println("  --no-history   Do not record the run")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  refguard verify ./references")
		fmt.Println("  refguard verify --dry-run ./references")
	case "diff":
		fmt.Println("refguard diff <target-dir>")
		fmt.Println()
		fmt.Println("Shows a line diff from each archived document to its drifted copy.")
		fmt.Println("Exits with status 3 when drift is found. Nothing is written.")
	case "ls":
		fmt.Println("refguard ls")
		fmt.Println()
		fmt.Println("Decrypts the keystore and lists its documents with their file names,")
		fmt.Println("sizes and digests.")
	case "status":
		fmt.Println("refguard status")
		fmt.Println()
		fmt.Println("Shows keystore status without decrypting anything:")
		fmt.Println("  - Archive and salt presence, document count and size")
		fmt.Println("  - Whether the salt is escrowed in the OS keyring")
		fmt.Println("  - Recent runs")
		fmt.Println("  - Whether the artifacts are committed to git")
	case "keyring":
		fmt.Println("refguard keyring [--force] <save|restore|delete|status>")
		fmt.Println()
		fmt.Println("Keeps a copy of the salt in the OS keyring.")
		fmt.Println("Without the salt the keystore cannot be decrypted.")
		fmt.Println()
		fmt.Println("Subcommands:")
		fmt.Println("  save      Store the salt in the keyring")
		fmt.Println("  restore   Write the keyring copy back to the salt file")
		fmt.Println("  delete    Remove the salt from the keyring")
		fmt.Println("  status    Show whether the salt is stored")
	case "completion":
		fmt.Println("refguard completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(refguard completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(refguard completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  refguard completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
