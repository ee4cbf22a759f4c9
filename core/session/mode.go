package session

import (
	"fmt"
	"os"
	"strings"
)

// Mode selects how a session treats observed entries: init records them and
// rewrites the vector file, check verifies them against the recording.
type Mode string

const (
	ModeInit  Mode = "init"
	ModeCheck Mode = "check"
)

// ModeEnvVar is the environment variable consulted when Options.Mode is
// left empty.
const ModeEnvVar = "TEST_MODE"

// ModeFromEnvironment reads ModeEnvVar. Anything other than "init" defaults
// to check so an unset or mistyped variable can never silently re-record
// vectors.
func ModeFromEnvironment() Mode {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(ModeEnvVar)))
	if raw == string(ModeInit) {
		return ModeInit
	}
	return ModeCheck
}

// ParseMode validates an explicitly supplied mode name. Unlike the
// environment default, explicit input must name a known mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeInit):
		return ModeInit, nil
	case string(ModeCheck):
		return ModeCheck, nil
	default:
		return "", fmt.Errorf("unsupported test mode %q (expected init or check)", raw)
	}
}
