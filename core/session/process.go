package session

import (
	"fmt"
	"reflect"

	coreerrors "github.com/aminfa/assert-tv/core/errors"
	"github.com/aminfa/assert-tv/core/jcs"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

// EntryInput carries one observed value, already reduced to structured data
// by the caller's serializer, plus the metadata recorded with it.
type EntryInput struct {
	Kind                vector.EntryKind
	Name                string
	Description         string
	Value               any
	CodeLocation        string
	DeclarationLocation string
	Offload             bool
}

// ProcessEntry appends the observed entry at the next position of the
// recorded stream and reconciles it against the loaded recording.
//
// The observed entry is recorded in every mode and on every outcome; the
// recorded stream always mirrors the full call sequence of the run. What
// happens next depends on the mode:
//
//   - init never compares. Const entries round-trip the just-serialized
//     value through deserialize and return it, so init and check runs hand
//     the caller structurally identical values. Output entries return
//     nothing.
//   - check requires a loaded entry at the same position and matches name
//     and kind for both kinds, value only for Output. Const entries
//     deserialize the loaded value, injecting the recorded constant into
//     the run.
//
// The returned bool reports whether a replacement value is being handed
// back; it is true exactly for successful Const entries. deserialize may be
// nil for Output entries.
func (s *Session) ProcessEntry(input EntryInput, deserialize func(any) (any, error)) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, coreerrors.Wrap(ErrNoActiveSession,
			coreerrors.CategoryStateContention, "session_closed",
			"process entries before closing the session handle")
	}

	switch input.Kind {
	case vector.KindConst, vector.KindOutput:
	default:
		return nil, false, coreerrors.Wrap(
			fmt.Errorf("unknown entry kind %q", input.Kind),
			coreerrors.CategoryInvalidInput, "entry_kind_unknown",
			"use KindConst or KindOutput")
	}
	if input.Kind == vector.KindConst && deserialize == nil {
		return nil, false, coreerrors.Wrap(
			fmt.Errorf("constant entry %q needs a deserializer", input.Name),
			coreerrors.CategoryInvalidInput, "deserializer_missing",
			"constant entries must be able to reconstruct the recorded value")
	}

	normalized, err := jcs.NormalizeValue(input.Value)
	if err != nil {
		return nil, false, coreerrors.Wrap(
			fmt.Errorf("serialize entry %q: %w", input.Name, err),
			coreerrors.CategoryInternalFailure, "value_serialize_failed",
			"the serializer must produce a JSON-representable structure")
	}
	observed := vector.Entry{
		Kind:                input.Kind,
		Description:         input.Description,
		Name:                input.Name,
		Value:               normalized,
		CodeLocation:        input.CodeLocation,
		DeclarationLocation: input.DeclarationLocation,
		Offload:             input.Offload,
	}

	position := len(s.recorded.Entries)
	var loaded *vector.Entry
	if position < len(s.loaded.Entries) {
		entry := s.loaded.Entries[position]
		loaded = &entry
	}
	s.recorded.Entries = append(s.recorded.Entries, observed)

	if s.mode == ModeInit {
		if observed.Kind != vector.KindConst {
			return nil, false, nil
		}
		replacement, err := deserialize(observed.Value)
		if err != nil {
			return nil, false, coreerrors.Wrap(
				&RoundTripError{Name: observed.Name, Err: err},
				coreerrors.CategoryInternalFailure, "serialization_round_trip",
				"fix the value codec so serialize and deserialize invert each other")
		}
		return replacement, true, nil
	}

	if loaded == nil {
		return nil, false, coreerrors.Wrap(
			&MissingEntryError{Position: position, Observed: observed},
			coreerrors.CategoryVerification, "missing_entry",
			"switch to init mode to re-record the vector")
	}
	if loaded.Name != observed.Name {
		return nil, false, wrapMismatch(&MismatchError{
			Position: position, Field: "name", Loaded: *loaded, Observed: observed,
		})
	}
	if loaded.Kind != observed.Kind {
		return nil, false, wrapMismatch(&MismatchError{
			Position: position, Field: "entry_type", Loaded: *loaded, Observed: observed,
		})
	}
	if loaded.Kind == vector.KindOutput {
		if !reflect.DeepEqual(loaded.Value, observed.Value) {
			return nil, false, wrapMismatch(&MismatchError{
				Position: position, Field: "value", Loaded: *loaded, Observed: observed,
			})
		}
		return nil, false, nil
	}

	// Const: the recorded value replaces the observed one; the observed
	// value is never compared.
	replacement, err := deserialize(loaded.Value)
	if err != nil {
		return nil, false, coreerrors.Wrap(
			&DeserializeError{Name: observed.Name, Position: position, Err: err},
			coreerrors.CategoryInternalFailure, "deserialization_failed",
			"the recorded constant no longer matches the value codec; re-record in init mode")
	}
	return replacement, true, nil
}

func wrapMismatch(mismatch *MismatchError) error {
	return coreerrors.Wrap(mismatch,
		coreerrors.CategoryVerification, "entry_mismatch",
		"switch to init mode to re-record the vector if the change is intended")
}
