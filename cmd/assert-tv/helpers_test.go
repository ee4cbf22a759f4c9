package main

import (
	"io"
	"os"
	"testing"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/offload"
	"github.com/aminfa/assert-tv/core/schema/v1/vector"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = writer
	defer func() {
		os.Stdout = original
	}()

	type readResult struct {
		raw []byte
		err error
	}
	resultCh := make(chan readResult, 1)
	go func() {
		raw, readErr := io.ReadAll(reader)
		resultCh <- readResult{raw: raw, err: readErr}
	}()

	fn()

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	result := <-resultCh
	if result.err != nil {
		t.Fatalf("read stdout: %v", result.err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}
	return string(result.raw)
}

func withWorkingDir(t *testing.T, path string) {
	t.Helper()
	current, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd: %v", err)
	}
	if err := os.Chdir(path); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(current)
	})
}

func sampleVector() vector.Document {
	return vector.Document{Entries: []vector.Entry{
		{Kind: vector.KindConst, Name: "seed", Value: float64(42), CodeLocation: "engine/run.go:12"},
		{Kind: vector.KindOutput, Name: "total", Value: map[string]any{"count": float64(3)}},
	}}
}

func writeSampleVector(t *testing.T, path string, format codec.Format) string {
	t.Helper()
	encoded, err := codec.Encode(sampleVector(), format)
	if err != nil {
		t.Fatalf("encode vector: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write vector: %v", err)
	}
	return path
}

func writeOffloadedVector(t *testing.T, path string, rows []any) string {
	t.Helper()
	document := vector.Document{Entries: []vector.Entry{
		{Kind: vector.KindConst, Name: "rows", Value: rows, Offload: true},
	}}
	stripped, err := offload.StoreDocumentValues(path, document)
	if err != nil {
		t.Fatalf("store offloaded values: %v", err)
	}
	encoded, err := codec.Encode(stripped, codec.FormatJSON)
	if err != nil {
		t.Fatalf("encode vector: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write vector: %v", err)
	}
	return path
}
