package jcs

import "testing"

func TestCanonicalizeJSON(t *testing.T) {
	in := []byte(`{ "b":2, "a":1 }`)
	want := `{"a":1,"b":2}`
	out, err := CanonicalizeJSON(in)
	if err != nil {
		t.Fatalf("canonicalize error: %v", err)
	}
	if string(out) != want {
		t.Fatalf("unexpected canonical form: %s", string(out))
	}
}

func TestDigestJCSStable(t *testing.T) {
	a := []byte(`{"a":1,"b":2}`)
	b := []byte(`{ "b":2, "a":1 }`)

	da, err := DigestJCS(a)
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	db, err := DigestJCS(b)
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	if da != db {
		t.Fatalf("expected same digest for equivalent JSON")
	}
}

func TestCanonicalizeJSONInvalid(t *testing.T) {
	_, err := CanonicalizeJSON([]byte(`{`))
	if err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestDigestJCSInvalid(t *testing.T) {
	_, err := DigestJCS([]byte(`{`))
	if err == nil {
		t.Fatalf("expected error for invalid JSON digest")
	}
}

func TestNormalizeValueProducesJSONNativeShapes(t *testing.T) {
	type pair struct {
		Left  int    `json:"left"`
		Right string `json:"right"`
	}
	normalized, err := NormalizeValue(map[string]any{
		"count": int64(7),
		"pair":  pair{Left: 1, Right: "r"},
	})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	tree, ok := normalized.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", normalized)
	}
	if tree["count"] != float64(7) {
		t.Fatalf("expected float64 count, got %T", tree["count"])
	}
	if _, ok := tree["pair"].(map[string]any); !ok {
		t.Fatalf("expected nested map, got %T", tree["pair"])
	}
}

func TestNormalizeValueNil(t *testing.T) {
	normalized, err := NormalizeValue(nil)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	if normalized != nil {
		t.Fatalf("expected nil, got %#v", normalized)
	}
}

func TestDigestValueIgnoresNumberSpelling(t *testing.T) {
	a, err := DigestValue(map[string]any{"n": float64(42)})
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	b, err := DigestValue(map[string]any{"n": int64(42)})
	if err != nil {
		t.Fatalf("digest error: %v", err)
	}
	if a != b {
		t.Fatalf("expected equal digests for 42 and 42.0")
	}
}

func TestCanonicalValueOrdersKeys(t *testing.T) {
	canonical, err := CanonicalValue(map[string]any{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("canonicalize error: %v", err)
	}
	if string(canonical) != `{"a":1,"b":2}` {
		t.Fatalf("unexpected canonical form: %s", canonical)
	}
}
