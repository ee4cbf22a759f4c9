package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

// resolveVectorFormat derives the format from the file extension unless an
// explicit --format value overrides it.
func resolveVectorFormat(path string, formatFlag string) (codec.Format, error) {
	if strings.TrimSpace(formatFlag) != "" {
		return codec.ParseFormat(formatFlag)
	}
	return codec.FormatForPath(path)
}

func readVectorDocument(path string, format codec.Format) (vector.Document, error) {
	// #nosec G304 -- the operator names the vector file to read.
	data, err := os.ReadFile(path)
	if err != nil {
		return vector.Document{}, fmt.Errorf("read vector file: %w", err)
	}
	document, err := codec.Decode(data, format)
	if err != nil {
		return vector.Document{}, fmt.Errorf("decode vector file %s: %w", path, err)
	}
	return document, nil
}
