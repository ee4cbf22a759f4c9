package session

import (
	"path/filepath"
	"testing"
)

func TestModeFromEnvironment(t *testing.T) {
	cases := []struct {
		raw  string
		want Mode
	}{
		{"init", ModeInit},
		{"INIT", ModeInit},
		{" init ", ModeInit},
		{"check", ModeCheck},
		{"", ModeCheck},
		{"record", ModeCheck},
	}
	for _, testCase := range cases {
		t.Setenv(ModeEnvVar, testCase.raw)
		if got := ModeFromEnvironment(); got != testCase.want {
			t.Fatalf("TEST_MODE=%q resolved to %q want %q", testCase.raw, got, testCase.want)
		}
	}
}

func TestParseModeRejectsUnknownNames(t *testing.T) {
	if _, err := ParseMode("record"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	mode, err := ParseMode("Init")
	if err != nil || mode != ModeInit {
		t.Fatalf("ParseMode(Init)=%q,%v", mode, err)
	}
}

func TestOpenUsesEnvironmentModeByDefault(t *testing.T) {
	t.Setenv(ModeEnvVar, "init")
	path := filepath.Join(t.TempDir(), "env.json")
	handle, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer handle.Close()
	if handle.Session().Mode() != ModeInit {
		t.Fatalf("expected init mode from environment, got %q", handle.Session().Mode())
	}
}

func TestOpenExplicitModeOverridesEnvironment(t *testing.T) {
	t.Setenv(ModeEnvVar, "init")
	path := filepath.Join(t.TempDir(), "explicit.json")
	if _, err := Open(path, Options{Mode: ModeCheck}); err == nil {
		t.Fatal("check mode on a missing file must fail regardless of TEST_MODE")
	}
}

func TestOpenRejectsInvalidExplicitOptions(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "run.json"), Options{Mode: "record"}); err == nil {
		t.Fatal("expected error for invalid explicit mode")
	}
	if _, err := Open(filepath.Join(dir, "run.json"), Options{Mode: ModeInit, Format: "xml"}); err == nil {
		t.Fatal("expected error for invalid explicit format")
	}
	if _, err := Open(filepath.Join(dir, "run.noext"), Options{Mode: ModeInit}); err == nil {
		t.Fatal("expected error for underivable format")
	}
}
