package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/offload"
)

func TestConvertJSONToYAML(t *testing.T) {
	dir := t.TempDir()
	source := writeSampleVector(t, filepath.Join(dir, "case.json"), codec.FormatJSON)

	if code := run([]string{"assert-tv", "convert", source, "--to", "yaml"}); code != exitOK {
		t.Fatalf("convert: expected %d got %d", exitOK, code)
	}

	target := filepath.Join(dir, "case.yaml")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read converted vector: %v", err)
	}
	document, err := codec.Decode(data, codec.FormatYAML)
	if err != nil {
		t.Fatalf("decode converted vector: %v", err)
	}
	if !reflect.DeepEqual(document, sampleVector()) {
		t.Fatalf("converted document drifted: %+v", document)
	}
}

func TestConvertExplicitOutCreatesParents(t *testing.T) {
	dir := t.TempDir()
	source := writeSampleVector(t, filepath.Join(dir, "case.json"), codec.FormatJSON)
	target := filepath.Join(dir, "out", "nested", "case.toml")

	if code := run([]string{"assert-tv", "convert", source, "--to", "toml", "--out", target}); code != exitOK {
		t.Fatalf("convert with --out: expected %d got %d", exitOK, code)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read converted vector: %v", err)
	}
	document, err := codec.Decode(data, codec.FormatTOML)
	if err != nil {
		t.Fatalf("decode converted vector: %v", err)
	}
	if !reflect.DeepEqual(document, sampleVector()) {
		t.Fatalf("converted document drifted: %+v", document)
	}
}

func TestConvertCarriesOffloadedValues(t *testing.T) {
	dir := t.TempDir()
	source := writeOffloadedVector(t, filepath.Join(dir, "case.json"), []any{"alpha", "beta"})

	if code := run([]string{"assert-tv", "convert", source, "--to", "yaml"}); code != exitOK {
		t.Fatalf("convert: expected %d got %d", exitOK, code)
	}

	target := filepath.Join(dir, "case.yaml")
	if _, err := os.Stat(offload.SidecarPath(target, 0)); err != nil {
		t.Fatalf("expected sidecar next to converted vector: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read converted vector: %v", err)
	}
	document, err := codec.Decode(data, codec.FormatYAML)
	if err != nil {
		t.Fatalf("decode converted vector: %v", err)
	}
	if document.Entries[0].Value != nil {
		t.Fatalf("offloaded value must stay out of the main document: %+v", document.Entries[0])
	}
	hydrated, err := offload.LoadDocumentValues(target, document)
	if err != nil {
		t.Fatalf("hydrate converted vector: %v", err)
	}
	if !reflect.DeepEqual(hydrated.Entries[0].Value, []any{"alpha", "beta"}) {
		t.Fatalf("offloaded value drifted: %#v", hydrated.Entries[0].Value)
	}
}

func TestConvertRejectsSamePath(t *testing.T) {
	dir := t.TempDir()
	source := writeSampleVector(t, filepath.Join(dir, "case.json"), codec.FormatJSON)

	if code := run([]string{"assert-tv", "convert", source, "--to", "json"}); code != exitInvalidInput {
		t.Fatalf("convert onto itself: expected %d got %d", exitInvalidInput, code)
	}
}

func TestConvertRequiresTargetFormat(t *testing.T) {
	dir := t.TempDir()
	source := writeSampleVector(t, filepath.Join(dir, "case.json"), codec.FormatJSON)

	if code := run([]string{"assert-tv", "convert", source}); code != exitInvalidInput {
		t.Fatalf("convert without --to: expected %d got %d", exitInvalidInput, code)
	}
}
