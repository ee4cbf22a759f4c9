package session

import (
	"fmt"

	coreerrors "github.com/aminfa/assert-tv/core/errors"
	"github.com/aminfa/assert-tv/core/location"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
	"github.com/aminfa/assert-tv/core/value"
)

// Expose records observed as a constant and returns the value the run must
// use from here on: the observed value in init mode, the recorded one in
// check mode. Non-deterministic inputs (randomness, timestamps, key
// material) go through Expose so check runs replay the recorded values.
//
// Expose participates in positional matching; calls must happen in the same
// order in every run.
func Expose[T any](s *Session, descriptor value.Descriptor[T], observed T) (T, error) {
	return expose(s, descriptor, observed, 2)
}

// Check records observed as an output. Init mode only records; check mode
// fails when the value drifted from the recording.
func Check[T any](s *Session, descriptor value.Descriptor[T], observed T) error {
	return check(s, descriptor, observed, 2)
}

// Const is the ad-hoc form of Expose: a named constant with the default JSON
// codec and no shared descriptor.
func Const[T any](s *Session, name string, observed T) (T, error) {
	return expose(s, value.Descriptor[T]{Name: name}, observed, 2)
}

// Output is the ad-hoc form of Check: a named output with the default JSON
// codec and no shared descriptor.
func Output[T any](s *Session, name string, observed T) error {
	return check(s, value.Descriptor[T]{Name: name}, observed, 2)
}

// skip counts stack frames from expose/check up to the user call site.
func expose[T any](s *Session, descriptor value.Descriptor[T], observed T, skip int) (T, error) {
	var zero T
	serialized, err := descriptor.Serialize(observed)
	if err != nil {
		return zero, wrapSerialize(descriptor.Name, err)
	}
	replacement, replaced, err := s.ProcessEntry(EntryInput{
		Kind:                vector.KindConst,
		Name:                descriptor.Name,
		Description:         descriptor.Description,
		Value:               serialized,
		CodeLocation:        location.Capture(skip),
		DeclarationLocation: descriptor.DeclarationLocation,
		Offload:             descriptor.Offload,
	}, func(raw any) (any, error) {
		return descriptor.Deserialize(raw)
	})
	if err != nil {
		return zero, err
	}
	if !replaced {
		return zero, coreerrors.Wrap(
			fmt.Errorf("constant %q produced no replacement value", descriptor.Name),
			coreerrors.CategoryInternalFailure, "constant_not_replaced", "")
	}
	typed, ok := replacement.(T)
	if !ok {
		return zero, coreerrors.Wrap(
			fmt.Errorf("constant %q deserialized to %T instead of %T", descriptor.Name, replacement, zero),
			coreerrors.CategoryInternalFailure, "constant_type_drift", "")
	}
	return typed, nil
}

func check[T any](s *Session, descriptor value.Descriptor[T], observed T, skip int) error {
	serialized, err := descriptor.Serialize(observed)
	if err != nil {
		return wrapSerialize(descriptor.Name, err)
	}
	_, _, err = s.ProcessEntry(EntryInput{
		Kind:                vector.KindOutput,
		Name:                descriptor.Name,
		Description:         descriptor.Description,
		Value:               serialized,
		CodeLocation:        location.Capture(skip),
		DeclarationLocation: descriptor.DeclarationLocation,
		Offload:             descriptor.Offload,
	}, nil)
	return err
}

func wrapSerialize(name string, cause error) error {
	return coreerrors.Wrap(
		fmt.Errorf("serialize value %q: %w", name, cause),
		coreerrors.CategoryInternalFailure, "value_serialize_failed",
		"the value codec must produce a JSON-representable structure")
}
