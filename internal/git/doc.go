// Package git provides git integration status checks for refguard.
//
// The archive and the salt ship with the application, so both are
// expected to be committed. Checks performed:
//   - Whether each artifact is tracked by git (should be)
//   - Whether each artifact is matched by .gitignore (should not be)
package git
