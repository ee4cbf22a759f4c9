// Package value types the structured-data boundary of vector entries: a
// Codec converts one Go type to and from the recorded tree, a Descriptor
// bundles the codec with the metadata recorded alongside every entry.
package value

import (
	"encoding/json"
	"fmt"

	"github.com/aminfa/assert-tv/core/jcs"
	"github.com/aminfa/assert-tv/core/location"
)

// Codec converts between a typed value and the structured-data tree stored
// in vector documents. Serialize and Deserialize must invert each other;
// init mode verifies that on every recorded constant.
type Codec[T any] interface {
	Serialize(T) (any, error)
	Deserialize(any) (T, error)
}

// JSONCodec maps values through encoding/json. It is the default codec and
// fits any type whose JSON form is faithful.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Serialize(observed T) (any, error) {
	return jcs.NormalizeValue(observed)
}

func (JSONCodec[T]) Deserialize(raw any) (T, error) {
	var decoded T
	data, err := json.Marshal(raw)
	if err != nil {
		return decoded, fmt.Errorf("encode structured value: %w", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return decoded, fmt.Errorf("decode structured value: %w", err)
	}
	return decoded, nil
}

// Descriptor describes one named value a test exposes or checks. Construct
// descriptors once per test file with Define and share them across runs;
// the struct is plain data and safe to copy.
type Descriptor[T any] struct {
	Name        string
	Description string
	// DeclarationLocation records where the descriptor was defined, as
	// opposed to the call sites that use it.
	DeclarationLocation string
	// Offload moves the recorded value into a compressed sidecar file.
	Offload bool
	// Codec overrides the default JSONCodec.
	Codec Codec[T]
}

// Define builds a Descriptor with the default JSON codec and captures the
// declaration site. Set Offload or Codec on the returned value as needed.
func Define[T any](name, description string) Descriptor[T] {
	return Descriptor[T]{
		Name:                name,
		Description:         description,
		DeclarationLocation: location.Capture(1),
		Codec:               JSONCodec[T]{},
	}
}

func (d Descriptor[T]) codec() Codec[T] {
	if d.Codec != nil {
		return d.Codec
	}
	return JSONCodec[T]{}
}

// Serialize runs the descriptor's codec, falling back to JSONCodec when
// none is set.
func (d Descriptor[T]) Serialize(observed T) (any, error) {
	return d.codec().Serialize(observed)
}

// Deserialize runs the descriptor's codec, falling back to JSONCodec when
// none is set.
func (d Descriptor[T]) Deserialize(raw any) (T, error) {
	return d.codec().Deserialize(raw)
}
