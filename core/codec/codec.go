// Package codec persists vector documents as JSON, YAML, or TOML. All three
// formats carry the same entry fields; decoded values are normalized to
// JSON-native shapes so documents compare equal regardless of the format
// they traveled through.
package codec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/aminfa/assert-tv/core/jcs"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat resolves a user-supplied format name. "yml" is accepted as an
// alias for YAML.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported vector format %q (expected json, yaml, or toml)", raw)
	}
}

// FormatForPath derives the vector format from the file extension.
func FormatForPath(path string) (Format, error) {
	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if extension == "" {
		return "", fmt.Errorf("vector path %q has no extension to derive a format from", path)
	}
	format, err := ParseFormat(extension)
	if err != nil {
		return "", fmt.Errorf("vector path %q: %w", path, err)
	}
	return format, nil
}

// wireEntry mirrors vector.Entry for encoding. Value is a pointer so that
// omitempty drops only absent values; present-but-falsy values (false, 0,
// "") still serialize.
type wireEntry struct {
	Kind                vector.EntryKind `json:"entry_type" yaml:"entry_type" toml:"entry_type"`
	Description         string           `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Name                string           `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Value               *any             `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	CodeLocation        string           `json:"code_location,omitempty" yaml:"code_location,omitempty" toml:"code_location,omitempty"`
	DeclarationLocation string           `json:"declaration_location,omitempty" yaml:"declaration_location,omitempty" toml:"declaration_location,omitempty"`
	Offload             bool             `json:"offload,omitempty" yaml:"offload,omitempty" toml:"offload,omitempty"`
}

type wireDocument struct {
	Entries []wireEntry `json:"entries" yaml:"entries" toml:"entries"`
}

// Encode renders a document in the requested format. Entries with a nil
// value omit the value field entirely, which keeps the encoding valid for
// TOML, the one format that cannot express null.
func Encode(document vector.Document, format Format) ([]byte, error) {
	wire := wireDocument{Entries: make([]wireEntry, 0, len(document.Entries))}
	for _, entry := range document.Entries {
		wired := wireEntry{
			Kind:                entry.Kind,
			Description:         entry.Description,
			Name:                entry.Name,
			CodeLocation:        entry.CodeLocation,
			DeclarationLocation: entry.DeclarationLocation,
			Offload:             entry.Offload,
		}
		if entry.Value != nil {
			value := entry.Value
			wired.Value = &value
		}
		wire.Entries = append(wire.Entries, wired)
	}

	switch format {
	case FormatJSON:
		encoded, err := json.MarshalIndent(wire, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json vector: %w", err)
		}
		return append(encoded, '\n'), nil
	case FormatYAML:
		encoded, err := yaml.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("encode yaml vector: %w", err)
		}
		return encoded, nil
	case FormatTOML:
		encoded, err := toml.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("encode toml vector: %w", err)
		}
		return encoded, nil
	default:
		return nil, fmt.Errorf("unsupported vector format %q", format)
	}
}

// Decode parses a document and normalizes every entry value to JSON-native
// shapes. Unknown entry kinds are rejected here so later processing can
// trust the discriminator.
func Decode(data []byte, format Format) (vector.Document, error) {
	var document vector.Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &document); err != nil {
			return vector.Document{}, fmt.Errorf("decode json vector: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &document); err != nil {
			return vector.Document{}, fmt.Errorf("decode yaml vector: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &document); err != nil {
			return vector.Document{}, fmt.Errorf("decode toml vector: %w", err)
		}
	default:
		return vector.Document{}, fmt.Errorf("unsupported vector format %q", format)
	}

	for index := range document.Entries {
		entry := &document.Entries[index]
		switch entry.Kind {
		case vector.KindConst, vector.KindOutput:
		default:
			return vector.Document{}, fmt.Errorf("entry %d: unknown entry_type %q", index, entry.Kind)
		}
		normalized, err := jcs.NormalizeValue(entry.Value)
		if err != nil {
			return vector.Document{}, fmt.Errorf("entry %d: %w", index, err)
		}
		entry.Value = normalized
	}
	return document, nil
}
