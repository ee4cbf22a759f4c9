package value

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := JSONCodec[sample]{}
	serialized, err := codec.Serialize(sample{Name: "a", Count: 2})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := map[string]any{"name": "a", "count": float64(2)}
	if !reflect.DeepEqual(serialized, want) {
		t.Fatalf("serialized=%#v want %#v", serialized, want)
	}
	decoded, err := codec.Deserialize(serialized)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if decoded != (sample{Name: "a", Count: 2}) {
		t.Fatalf("round trip changed value: %#v", decoded)
	}
}

func TestJSONCodecDeserializeTypeMismatch(t *testing.T) {
	codec := JSONCodec[int]{}
	if _, err := codec.Deserialize("not a number"); err == nil {
		t.Fatal("expected error decoding string into int")
	}
}

func TestDefineCapturesDeclarationLocation(t *testing.T) {
	descriptor := Define[int]("seed", "rng seed")
	if descriptor.Name != "seed" || descriptor.Description != "rng seed" {
		t.Fatalf("unexpected metadata: %+v", descriptor)
	}
	if !strings.Contains(descriptor.DeclarationLocation, "value_test.go:") {
		t.Fatalf("expected declaration location in this file, got %q", descriptor.DeclarationLocation)
	}
}

type doublingCodec struct{}

func (doublingCodec) Serialize(observed int) (any, error) { return float64(observed * 2), nil }

func (doublingCodec) Deserialize(raw any) (int, error) {
	number, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
	return int(number) / 2, nil
}

func TestDescriptorUsesConfiguredCodec(t *testing.T) {
	descriptor := Descriptor[int]{Name: "doubled", Codec: doublingCodec{}}
	serialized, err := descriptor.Serialize(21)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != float64(42) {
		t.Fatalf("expected doubled value, got %#v", serialized)
	}
	decoded, err := descriptor.Deserialize(serialized)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if decoded != 21 {
		t.Fatalf("expected 21, got %d", decoded)
	}
}

func TestDescriptorDefaultsToJSONCodec(t *testing.T) {
	descriptor := Descriptor[string]{Name: "plain"}
	serialized, err := descriptor.Serialize("text")
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != "text" {
		t.Fatalf("expected identity serialization, got %#v", serialized)
	}
}
