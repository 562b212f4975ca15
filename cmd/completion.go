package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(ExitError)
	}
}

const bashCompletion = `_refguard() {
    local cur prev words cword
    _init_completion || return

    local commands="generate verify diff ls status keyring help completion"
    local common="--dir --verbose --debug"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    if [[ "$prev" == "--dir" ]]; then
        _filedir -d
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        generate)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$common --force --no-history" -- "$cur"))
            else
                _filedir -d
            fi
            ;;
        verify)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$common --dry-run --no-history" -- "$cur"))
            else
                _filedir -d
            fi
            ;;
        diff)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$common" -- "$cur"))
            else
                _filedir -d
            fi
            ;;
        ls|status)
            COMPREPLY=($(compgen -W "$common" -- "$cur"))
            ;;
        keyring)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$common --force" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "save restore delete status" -- "$cur"))
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _refguard refguard
`

const zshCompletion = `#compdef refguard

_refguard() {
    local -a commands common
    commands=(
        'generate:Build the keystore from a directory of documents'
        'verify:Verify documents and restore drifted ones'
        'diff:Show how documents drifted from the keystore'
        'ls:List documents held in the keystore'
        'status:Show keystore status'
        'keyring:Escrow the salt in the OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )
    common=(
        '--dir[Keystore directory]:directory:_files -/'
        '--verbose[Verbose output]'
        '--debug[Debug output]'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'refguard commands' commands
            ;;
        args)
            case "${words[2]}" in
                generate)
                    _arguments $common \
                        '--force[Rebuild without confirmation]' \
                        '--no-history[Do not record the run]' \
                        '*:source directory:_files -/'
                    ;;
                verify)
                    _arguments $common \
                        '--dry-run[Report drift without restoring]' \
                        '--no-history[Do not record the run]' \
                        '*:target directory:_files -/'
                    ;;
                diff)
                    _arguments $common '*:target directory:_files -/'
                    ;;
                ls|status)
                    _arguments $common
                    ;;
                keyring)
                    _arguments $common \
                        '--force[Overwrite a differing salt file]' \
                        '1:subcommand:(save restore delete status)'
                    ;;
                help)
                    _describe -t commands 'refguard commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_refguard "$@"
`

const fishCompletion = `# refguard fish completions

set -l commands generate verify diff ls status keyring help completion

complete -c refguard -f

# Commands
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a generate -d 'Build the keystore'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a verify -d 'Verify and restore documents'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Show drift'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List keystore documents'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show keystore status'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Escrow the salt in the OS keyring'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c refguard -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Common flags
complete -c refguard -n "__fish_seen_subcommand_from generate verify diff ls status keyring" -l dir -r -a "(__fish_complete_directories)" -d 'Keystore directory'
complete -c refguard -n "__fish_seen_subcommand_from generate verify diff ls status keyring" -l verbose -d 'Verbose output'
complete -c refguard -n "__fish_seen_subcommand_from generate verify diff ls status keyring" -l debug -d 'Debug output'

# generate and verify
complete -c refguard -n "__fish_seen_subcommand_from generate" -l force -d 'Rebuild without confirmation'
complete -c refguard -n "__fish_seen_subcommand_from generate verify" -l no-history -d 'Do not record the run'
complete -c refguard -n "__fish_seen_subcommand_from verify" -l dry-run -d 'Report drift without restoring'
complete -c refguard -n "__fish_seen_subcommand_from generate verify diff" -a "(__fish_complete_directories)"

# keyring subcommands
complete -c refguard -n "__fish_seen_subcommand_from keyring" -l force -d 'Overwrite a differing salt file'
complete -c refguard -n "__fish_seen_subcommand_from keyring" -a "save restore delete status"

# help completions
complete -c refguard -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c refguard -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
