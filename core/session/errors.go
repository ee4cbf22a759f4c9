package session

import (
	"errors"
	"fmt"

	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

var (
	// ErrAlreadyActive reports an attempt to open a session while the
	// registry slot is still held by a live handle.
	ErrAlreadyActive = errors.New("a test vector session is already active")

	// ErrNoActiveSession reports entry processing against a session whose
	// handle was already closed.
	ErrNoActiveSession = errors.New("no test vector session is active")
)

// LoadError reports a vector file or offload sidecar that could not be
// read, parsed, or resolved while opening a check-mode session.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load test vector file %s (you may need to switch to init mode): %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// WriteError reports a failed persistence of the recorded document or one
// of its sidecars.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write test vector file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// MissingEntryError reports an observed call sequence that is longer than
// the loaded recording: the entry at Position has no recorded counterpart.
type MissingEntryError struct {
	Position int
	Observed vector.Entry
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf(
		"observed entry %q at position %d does not exist in the loaded test vector (you may need to switch to init mode to re-record it)",
		e.Observed.Name, e.Position,
	)
}

// MismatchError reports drift between a loaded entry and the entry observed
// at the same position. Field names the first comparison that failed; both
// entries ride along for diagnostics.
type MismatchError struct {
	Position int
	Field    string
	Loaded   vector.Entry
	Observed vector.Entry
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"observed entry does not match the loaded test vector %s at position %d:\n"+
			"       loaded name: %q\n"+
			"     observed name: %q\n"+
			"      loaded value: %v\n"+
			"    observed value: %v\n"+
			" loaded entry_type: %s\n"+
			"observed entry_type: %s",
		e.Field, e.Position,
		e.Loaded.Name, e.Observed.Name,
		e.Loaded.Value, e.Observed.Value,
		e.Loaded.Kind, e.Observed.Kind,
	)
}

// RoundTripError reports a constant whose freshly serialized value could
// not be deserialized again during init mode. The recording is fine; the
// value codec is not.
type RoundTripError struct {
	Name string
	Err  error
}

func (e *RoundTripError) Error() string {
	return fmt.Sprintf(
		"deserialize constant %q right after serializing it: %v (probably a bug in the value codec implementation)",
		e.Name, e.Err,
	)
}

func (e *RoundTripError) Unwrap() error { return e.Err }

// DeserializeError reports a recorded constant value the caller's codec
// could not reconstruct during check mode.
type DeserializeError struct {
	Name     string
	Position int
	Err      error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("deserialize loaded constant %q at position %d: %v", e.Name, e.Position, e.Err)
}

func (e *DeserializeError) Unwrap() error { return e.Err }
