package location

import (
	"strings"
	"testing"
)

func TestCaptureReportsCallerFileAndLine(t *testing.T) {
	got := Capture(0)
	if got == "" {
		t.Fatal("expected non-empty location")
	}
	if !strings.Contains(got, "location_test.go:") {
		t.Fatalf("expected test file in location, got %q", got)
	}
}

func TestCaptureKeepsAtMostTwoPathComponents(t *testing.T) {
	got := Capture(0)
	file := got[:strings.LastIndex(got, ":")]
	if parts := strings.Split(file, "/"); len(parts) > 2 {
		t.Fatalf("expected at most two path components, got %q", got)
	}
}

func TestShorten(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"main.go", "main.go"},
		{"pkg/main.go", "pkg/main.go"},
		{"home/user/project/pkg/main.go", "pkg/main.go"},
	}
	for _, testCase := range cases {
		if got := shorten(testCase.input); got != testCase.want {
			t.Fatalf("shorten(%q)=%q want %q", testCase.input, got, testCase.want)
		}
	}
}
