package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/jcs"
	"github.com/aminfa/assert-tv/core/offload"
)

type digestOutput struct {
	OK      bool   `json:"ok"`
	Path    string `json:"path,omitempty"`
	Digest  string `json:"digest,omitempty"`
	Entries int    `json:"entries,omitempty"`
	Error   string `json:"error,omitempty"`
}

// runDigest prints a canonical fingerprint of a vector file. The digest is
// computed over the hydrated JSON projection, so the same recording produces
// the same digest regardless of serialization format or offloading.
func runDigest(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Print a canonical sha256 fingerprint of a test vector, stable across formats.")
	}
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"format": true,
	})
	flagSet := flag.NewFlagSet("digest", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var formatFlag string
	var helpFlag bool

	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.StringVar(&formatFlag, "format", "", "vector format: json|yaml|toml (default: by extension)")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	if helpFlag {
		printDigestUsage()
		return exitOK
	}

	remaining := flagSet.Args()
	if len(remaining) != 1 {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Error: "expected exactly one vector file"}, exitInvalidInput)
	}
	path := remaining[0]

	format, err := resolveVectorFormat(path, formatFlag)
	if err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	document, err := readVectorDocument(path, format)
	if err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	document, err = offload.LoadDocumentValues(path, document)
	if err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInternalFailure))
	}

	encoded, err := codec.Encode(document, codec.FormatJSON)
	if err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Path: path, Error: err.Error()}, exitInternalFailure)
	}
	digest, err := jcs.DigestJCS(encoded)
	if err != nil {
		return writeDigestOutput(jsonOutput, digestOutput{OK: false, Path: path, Error: err.Error()}, exitInternalFailure)
	}

	return writeDigestOutput(jsonOutput, digestOutput{
		OK:      true,
		Path:    path,
		Digest:  digest,
		Entries: len(document.Entries),
	}, exitOK)
}

func writeDigestOutput(jsonOutput bool, output digestOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("digest error: %s\n", output.Error)
		return exitCode
	}
	fmt.Printf("%s  %s\n", output.Digest, output.Path)
	return exitCode
}

func printDigestUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv digest <vector file> [--format json|yaml|toml] [--json] [--explain]")
}
