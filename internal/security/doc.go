// Package security confines document reads and writes to a target directory.
//
// File names written during restore come from archive contents, so every
// operation goes through Go 1.24's os.Root and additionally rejects names
// that are empty, absolute, escape the directory or contain a separator.
package security
