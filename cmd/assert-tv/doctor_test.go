package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aminfa/assert-tv/core/codec"
)

func TestDoctorHealthyWorkspace(t *testing.T) {
	workDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workDir, ".assert-tv"), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, ".assert-tv", "config.yaml"), []byte("vectors:\n  dir: vectors\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(workDir, "vectors"), 0o755); err != nil {
		t.Fatalf("mkdir vectors: %v", err)
	}
	writeSampleVector(t, filepath.Join(workDir, "vectors", "case.json"), codec.FormatJSON)

	raw := captureStdout(t, func() {
		if code := run([]string{"assert-tv", "doctor", "--workdir", workDir, "--json"}); code != exitOK {
			t.Fatalf("doctor: expected %d got %d", exitOK, code)
		}
	})
	var output doctorOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &output); err != nil {
		t.Fatalf("decode doctor output: %v", err)
	}
	if !output.OK || output.Status != "pass" {
		t.Fatalf("unexpected doctor output: %+v", output)
	}
}

func TestDoctorStrictFailsOnBrokenWorkspace(t *testing.T) {
	workDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workDir, ".assert-tv"), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, ".assert-tv", "config.yaml"), []byte("vectors:\n  dir: vectors\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if code := run([]string{"assert-tv", "doctor", "--workdir", workDir, "--strict"}); code != exitVerifyFailed {
		t.Fatalf("strict doctor on missing vectors dir: expected %d got %d", exitVerifyFailed, code)
	}
	if code := run([]string{"assert-tv", "doctor", "--workdir", workDir}); code != exitOK {
		t.Fatalf("advisory doctor: expected %d got %d", exitOK, code)
	}
}

func TestDoctorRejectsPositionalArguments(t *testing.T) {
	if code := run([]string{"assert-tv", "doctor", "extra"}); code != exitInvalidInput {
		t.Fatalf("doctor with positional: expected %d got %d", exitInvalidInput, code)
	}
}
