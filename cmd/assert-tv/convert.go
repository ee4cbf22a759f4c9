package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/fsx"
	"github.com/aminfa/assert-tv/core/offload"
)

type convertOutput struct {
	OK      bool   `json:"ok"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Format  string `json:"format,omitempty"`
	Entries int    `json:"entries,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runConvert(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Rewrite a test vector file in another format, carrying offloaded values across.")
	}
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"to":     true,
		"out":    true,
		"format": true,
	})
	flagSet := flag.NewFlagSet("convert", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var toFlag string
	var outFlag string
	var formatFlag string
	var helpFlag bool

	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.StringVar(&toFlag, "to", "", "target format: json|yaml|toml")
	flagSet.StringVar(&outFlag, "out", "", "target path (default: source path with the target extension)")
	flagSet.StringVar(&formatFlag, "format", "", "source format: json|yaml|toml (default: by extension)")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	if helpFlag {
		printConvertUsage()
		return exitOK
	}

	remaining := flagSet.Args()
	if len(remaining) != 1 {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Error: "expected exactly one source vector file"}, exitInvalidInput)
	}
	source := remaining[0]

	if strings.TrimSpace(toFlag) == "" {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: "missing required --to <format>"}, exitInvalidInput)
	}
	targetFormat, err := codec.ParseFormat(toFlag)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	sourceFormat, err := resolveVectorFormat(source, formatFlag)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}

	target := strings.TrimSpace(outFlag)
	if target == "" {
		target = strings.TrimSuffix(source, filepath.Ext(source)) + "." + string(targetFormat)
	}
	if target == source {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: "target path equals source path"}, exitInvalidInput)
	}

	document, err := readVectorDocument(source, sourceFormat)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	// Hydrate before re-offloading so sidecars follow the target path.
	document, err = offload.LoadDocumentValues(source, document)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Error: err.Error()}, exitCodeForError(err, exitInternalFailure))
	}

	if err := fsx.EnsureParentDir(target, 0o755); err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Target: target, Error: err.Error()}, exitInternalFailure)
	}
	stripped, err := offload.StoreDocumentValues(target, document)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Target: target, Error: err.Error()}, exitInternalFailure)
	}
	encoded, err := codec.Encode(stripped, targetFormat)
	if err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Target: target, Error: err.Error()}, exitInternalFailure)
	}
	if err := fsx.WriteFileAtomic(target, encoded, 0o644); err != nil {
		return writeConvertOutput(jsonOutput, convertOutput{OK: false, Source: source, Target: target, Error: err.Error()}, exitInternalFailure)
	}

	return writeConvertOutput(jsonOutput, convertOutput{
		OK:      true,
		Source:  source,
		Target:  target,
		Format:  string(targetFormat),
		Entries: len(document.Entries),
	}, exitOK)
}

func writeConvertOutput(jsonOutput bool, output convertOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("convert error: %s\n", output.Error)
		return exitCode
	}
	fmt.Printf("convert ok: %s -> %s (%s, %d entries)\n", output.Source, output.Target, output.Format, output.Entries)
	return exitCode
}

func printConvertUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv convert <vector file> --to json|yaml|toml [--out <path>] [--format json|yaml|toml] [--json] [--explain]")
}
