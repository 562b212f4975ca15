package git

import (
	"os/exec"
	"strings"
	"testing"
)

func TestFormatGitStatus(t *testing.T) {
	if got := FormatGitStatus(&GitStatus{}); got != "" {
		t.Errorf("Expected empty output outside a repo, got %q", got)
	}

	out := FormatGitStatus(&GitStatus{
		IsRepo:    true,
		Tracked:   []string{"refs.kst"},
		Untracked: []string{"salt.key", "extra.key"},
		Ignored:   []string{"salt.key"},
	})

	for _, want := range []string{
		"ok: refs.kst is tracked",
		"error: salt.key is ignored",
		"warning: extra.key not tracked",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "warning: salt.key") {
		t.Errorf("Ignored artifact should not also be reported as untracked:\n%s", out)
	}
}

func TestCheckArtifactsOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if IsGitRepo(dir) {
		t.Skip("temp dir is inside a git repository")
	}

	status, err := CheckArtifacts(dir, []string{"refs.kst"})
	if err != nil {
		t.Fatalf("CheckArtifacts failed: %v", err)
	}
	if status.IsRepo || len(status.Tracked)+len(status.Untracked) != 0 {
		t.Errorf("Unexpected status outside repo: %+v", status)
	}
}

func TestCheckArtifactsInRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("git %v failed: %v: %s", args, err, out)
		}
	}
	run("init", "-q")

	status, err := CheckArtifacts(dir, []string{"refs.kst"})
	if err != nil {
		t.Fatalf("CheckArtifacts failed: %v", err)
	}
	if !status.IsRepo {
		t.Fatal("Expected a git repository")
	}
	if len(status.Untracked) != 1 || len(status.Tracked) != 0 {
		t.Errorf("Fresh artifact should be untracked: %+v", status)
	}
}
