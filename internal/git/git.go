package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus contains git integration status information
type GitStatus struct {
	IsRepo    bool
	Tracked   []string // Artifacts tracked by git (good)
	Untracked []string // Artifacts not yet committed (warning)
	Ignored   []string // Artifacts matched by .gitignore (bad)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckArtifacts checks git status of the keystore artifacts.
// Paths are relative to workDir.
func CheckArtifacts(workDir string, artifacts []string) (*GitStatus, error) {
	status := &GitStatus{}

	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true

	for _, file := range artifacts {
		if IsTracked(workDir, file) {
			status.Tracked = append(status.Tracked, file)
		} else {
			status.Untracked = append(status.Untracked, file)
		}
		if IsIgnored(workDir, file) {
			status.Ignored = append(status.Ignored, file)
		}
	}

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	for _, file := range status.Tracked {
		result.WriteString(fmt.Sprintf("   ok: %s is tracked by git\n", file))
	}

	ignored := make(map[string]bool, len(status.Ignored))
	for _, file := range status.Ignored {
		ignored[file] = true
		result.WriteString(fmt.Sprintf("   error: %s is ignored by git (remove it from .gitignore)\n", file))
	}

	for _, file := range status.Untracked {
		if ignored[file] {
			continue
		}
		result.WriteString(fmt.Sprintf("   warning: %s not tracked (run: git add %s)\n", file, file))
	}

	return result.String()
}
