// Package offload moves bulky entry values out of vector documents into
// compressed sidecar files. The sidecar is the authoritative copy for an
// offloaded entry; the main document keeps the entry itself but drops its
// value.
package offload

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/aminfa/assert-tv/core/fsx"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

// SidecarPath returns the sidecar file path for the value at the given
// entry index. The full vector filename, extension included, stays in the
// name so sidecars sort next to their document.
func SidecarPath(vectorPath string, index int) string {
	return fmt.Sprintf("%s_offloaded_value_%d.zstd", vectorPath, index)
}

var sidecarPattern = regexp.MustCompile(`^(.+)_offloaded_value_(\d+)\.zstd$`)

// ParseSidecarPath reports whether path names a sidecar file and, if so,
// which vector file and entry index it belongs to.
func ParseSidecarPath(path string) (vectorPath string, index int, ok bool) {
	match := sidecarPattern.FindStringSubmatch(path)
	if match == nil {
		return "", 0, false
	}
	index, err := strconv.Atoi(match[2])
	if err != nil {
		return "", 0, false
	}
	return match[1], index, true
}

// SaveValue writes the value at index to its sidecar as zstd-compressed
// JSON.
func SaveValue(vectorPath string, index int, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serialize offloaded value %d: %w", index, err)
	}
	compressed, err := compress(payload)
	if err != nil {
		return err
	}
	if err := fsx.WriteFileAtomic(SidecarPath(vectorPath, index), compressed, 0o644); err != nil {
		return fmt.Errorf("write offloaded value %d: %w", index, err)
	}
	return nil
}

// LoadValue reads the sidecar for index and returns the decoded value. A
// missing sidecar is an error; offloaded entries cannot be replayed without
// their value.
func LoadValue(vectorPath string, index int) (any, error) {
	sidecar := SidecarPath(vectorPath, index)
	// #nosec G304 -- sidecar path derives from the caller-provided vector path.
	compressed, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, fmt.Errorf("read offloaded value %d: %w", index, err)
	}
	payload, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress offloaded value %d: %w", index, err)
	}
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("parse offloaded value %d: %w", index, err)
	}
	return value, nil
}

// StoreDocumentValues persists the values of all offloaded entries as
// sidecars of vectorPath and returns a copy of the document with those
// values removed, ready for the main encoding.
func StoreDocumentValues(vectorPath string, document vector.Document) (vector.Document, error) {
	stored := document.Clone()
	for index := range stored.Entries {
		entry := &stored.Entries[index]
		if !entry.Offload {
			continue
		}
		if err := SaveValue(vectorPath, index, entry.Value); err != nil {
			return vector.Document{}, err
		}
		entry.Value = nil
	}
	return stored, nil
}

// LoadDocumentValues fills in the values of all offloaded entries from
// their sidecars. An inline value left in the main document is replaced;
// the sidecar is authoritative.
func LoadDocumentValues(vectorPath string, document vector.Document) (vector.Document, error) {
	loaded := document.Clone()
	for index := range loaded.Entries {
		entry := &loaded.Entries[index]
		if !entry.Offload {
			continue
		}
		value, err := LoadValue(vectorPath, index)
		if err != nil {
			return vector.Document{}, err
		}
		entry.Value = value
	}
	return loaded, nil
}

func compress(payload []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2)), nil
}

func decompress(payload []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(payload, nil)
}
