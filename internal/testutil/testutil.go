// Package testutil carries helpers shared by the e2e and integration test
// packages: locating the repo root, building the CLI binary once per test,
// and small file utilities.
package testutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func RepoRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to locate testutil source file")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

func BuildCLIBinary(t *testing.T, root string) string {
	t.Helper()
	binDir := t.TempDir()
	binName := "assert-tv"
	if runtime.GOOS == "windows" {
		binName = "assert-tv.exe"
	}
	binPath := filepath.Join(binDir, binName)

	// #nosec G204 -- arguments are fixed and used only in test binaries.
	build := exec.Command("go", "build", "-o", binPath, "./cmd/assert-tv")
	build.Dir = root
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build assert-tv binary: %v\n%s", err, string(out))
	}
	return binPath
}

func CommandExitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected command exit error, got: %v", err)
	}
	return exitErr.ExitCode()
}

func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path) // #nosec G304 -- test helper for controlled paths.
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return content
}
