package jcs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// CanonicalizeJSON returns the RFC 8785 (JCS) canonical form of JSON input.
func CanonicalizeJSON(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// DigestJCS canonicalizes JSON (RFC 8785) and returns a sha256 hex digest.
func DigestJCS(input []byte) (string, error) {
	canonical, err := CanonicalizeJSON(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// NormalizeValue round-trips a structured value through JSON so that every
// container and scalar lands on the canonical Go shapes (map[string]any,
// []any, float64, string, bool, nil). Values decoded from YAML or TOML carry
// format-specific types (int64, map[any]any); normalizing first lets values
// from different formats compare equal.
func NormalizeValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return normalized, nil
}

// CanonicalValue renders a structured value as RFC 8785 canonical JSON.
// Canonical bytes are stable across key order and number spellings, so they
// can be compared directly for value equality.
func CanonicalValue(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("canonicalize value: %w", err)
	}
	return CanonicalizeJSON(raw)
}

// DigestValue returns the sha256 hex digest of a value's canonical JSON form.
func DigestValue(value any) (string, error) {
	canonical, err := CanonicalValue(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
