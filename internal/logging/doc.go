// Package logging provides leveled logging for refguard.
//
// Verbosity is controlled by two switches:
//
//   - Verbose: shows info messages
//   - Debug: shows debug messages as well
//
// Warnings and errors are always written. Prefixes are colored with
// fatih/color, which honours NO_COLOR and non-terminal output.
//
// The zero value logs warnings and errors to stderr:
//
//	log := logging.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Found %d documents", n)
package logging
