package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/refguard/internal/crypto"
	"github.com/illarion/refguard/internal/keyring"
	"github.com/illarion/refguard/internal/ui"
)

// KeyringSave escrows the salt in the OS keyring
func KeyringSave(opts Options) {
	ks := opts.Keystore()

	salt, err := ks.ReadSalt()
	if err != nil {
		HandleError(err)
	}
	if salt == nil {
		fmt.Fprintf(os.Stderr, "%s no salt in %s\n", ui.Error.Sprint("Error:"), ui.Path.Sprint(ks.Dir()))
		os.Exit(ExitMissing)
	}
	defer crypto.ClearBytes(salt)

	id := keystoreIDOrExit(ks.Dir())
	if err := keyring.SaveSalt(id, salt); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to save to keyring: %s\n", ui.Error.Sprint("Error:"), err)
		os.Exit(ExitError)
	}

	fmt.Println("Salt saved to keyring")
}

// KeyringRestore writes the escrowed salt back to the keystore directory
func KeyringRestore(opts Options, force bool) {
	ks := opts.Keystore()
	id := keystoreIDOrExit(ks.Dir())

	salt, err := keyring.GetSalt(id)
	if keyring.IsNotFound(err) {
		fmt.Fprintln(os.Stderr, "No salt stored in keyring")
		os.Exit(ExitMissing)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Error.Sprint("Error:"), err)
		os.Exit(ExitError)
	}
	defer crypto.ClearBytes(salt)

	current, err := ks.ReadSalt()
	if err != nil {
		HandleError(err)
	}
	if current != nil {
		defer crypto.ClearBytes(current)
		if crypto.ConstantTimeCompare(current, salt) {
			fmt.Println("Salt already matches the keyring copy")
			return
		}
		if !force {
			fmt.Fprintf(os.Stderr, "%s %s differs from the keyring copy\n", ui.Error.Sprint("Error:"), ui.Path.Sprint(ks.SaltPath()))
			fmt.Fprintf(os.Stderr, "Use %s to overwrite it\n", ui.Code.Sprint("--force"))
			os.Exit(ExitError)
		}
	}

	if err := ks.WriteSalt(salt); err != nil {
		HandleError(err)
	}
	fmt.Printf("Salt restored to %s\n", ui.Path.Sprint(ks.SaltPath()))
}

// KeyringDelete removes the salt from the OS keyring
func KeyringDelete(opts Options) {
	id := keystoreIDOrExit(ResolveDir(opts.Dir))

	if err := keyring.DeleteSalt(id); err != nil {
		fmt.Println("No salt stored in keyring")
		return
	}

	fmt.Println("Salt removed from keyring")
}

// KeyringStatus checks if the salt is escrowed
func KeyringStatus(opts Options) {
	ks := opts.Keystore()
	id := keystoreIDOrExit(ks.Dir())

	if !keyring.HasSalt(id) {
		fmt.Println("Salt: not stored")
		return
	}

	escrowed, err := keyring.GetSalt(id)
	if err != nil {
		fmt.Printf("Salt: stored in keyring, unreadable (%s)\n", err)
		return
	}
	defer crypto.ClearBytes(escrowed)

	current, _ := ks.ReadSalt()
	switch {
	case current == nil:
		fmt.Println("Salt: stored in keyring (salt file missing, run: refguard keyring restore)")
	case crypto.ConstantTimeCompare(current, escrowed):
		fmt.Println("Salt: stored in keyring (matches salt file)")
	default:
		fmt.Println("Salt: stored in keyring (differs from salt file)")
	}
}

func keystoreIDOrExit(dir string) string {
	id, err := keyring.KeystoreID(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Error.Sprint("Error:"), err)
		os.Exit(ExitError)
	}
	return id
}
