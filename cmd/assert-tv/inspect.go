package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/aminfa/assert-tv/core/jcs"
	"github.com/aminfa/assert-tv/core/offload"
)

type inspectEntry struct {
	Position            int    `json:"position"`
	EntryType           string `json:"entry_type"`
	Name                string `json:"name,omitempty"`
	Description         string `json:"description,omitempty"`
	Offload             bool   `json:"offload,omitempty"`
	HasValue            bool   `json:"has_value"`
	ValueDigest         string `json:"value_digest,omitempty"`
	CodeLocation        string `json:"code_location,omitempty"`
	DeclarationLocation string `json:"declaration_location,omitempty"`
}

type inspectOutput struct {
	OK      bool           `json:"ok"`
	Path    string         `json:"path,omitempty"`
	Format  string         `json:"format,omitempty"`
	Entries []inspectEntry `json:"entries,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func runInspect(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Render a deterministic summary of a test vector file: entry order, kinds, names, and value digests.")
	}
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"format": true,
	})
	flagSet := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var formatFlag string
	var resolveOffload bool
	var helpFlag bool

	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.StringVar(&formatFlag, "format", "", "vector format: json|yaml|toml (default: by extension)")
	flagSet.BoolVar(&resolveOffload, "resolve-offload", false, "hydrate offloaded values from sidecar files")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	if helpFlag {
		printInspectUsage()
		return exitOK
	}

	remaining := flagSet.Args()
	if len(remaining) != 1 {
		return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Error: "expected exactly one vector file"}, exitInvalidInput)
	}
	path := remaining[0]

	format, err := resolveVectorFormat(path, formatFlag)
	if err != nil {
		return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	document, err := readVectorDocument(path, format)
	if err != nil {
		return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
	}
	if resolveOffload {
		document, err = offload.LoadDocumentValues(path, document)
		if err != nil {
			return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Path: path, Error: err.Error()}, exitCodeForError(err, exitInternalFailure))
		}
	}

	entries := make([]inspectEntry, 0, len(document.Entries))
	for index, entry := range document.Entries {
		item := inspectEntry{
			Position:            index,
			EntryType:           string(entry.Kind),
			Name:                entry.Name,
			Description:         entry.Description,
			Offload:             entry.Offload,
			HasValue:            entry.Value != nil,
			CodeLocation:        entry.CodeLocation,
			DeclarationLocation: entry.DeclarationLocation,
		}
		if entry.Value != nil {
			digest, digestErr := jcs.DigestValue(entry.Value)
			if digestErr != nil {
				return writeInspectOutput(jsonOutput, inspectOutput{OK: false, Path: path, Error: digestErr.Error()}, exitInternalFailure)
			}
			item.ValueDigest = digest
		}
		entries = append(entries, item)
	}
	return writeInspectOutput(jsonOutput, inspectOutput{
		OK:      true,
		Path:    path,
		Format:  string(format),
		Entries: entries,
	}, exitOK)
}

func writeInspectOutput(jsonOutput bool, output inspectOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if !output.OK {
		fmt.Printf("inspect error: %s\n", output.Error)
		return exitCode
	}
	fmt.Printf("vector inspect: path=%s format=%s entries=%d\n", output.Path, output.Format, len(output.Entries))
	for _, entry := range output.Entries {
		line := fmt.Sprintf("%d. type=%s name=%s", entry.Position, entry.EntryType, entry.Name)
		if entry.Offload {
			line += " offload=true"
		}
		if !entry.HasValue {
			line += " value=absent"
		} else if entry.ValueDigest != "" {
			line += fmt.Sprintf(" digest=%.12s", entry.ValueDigest)
		}
		fmt.Println(line)
		if entry.CodeLocation != "" {
			fmt.Printf("   recorded_at=%s\n", entry.CodeLocation)
		}
		if entry.DeclarationLocation != "" {
			fmt.Printf("   declared_at=%s\n", entry.DeclarationLocation)
		}
	}
	return exitCode
}

func printInspectUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv inspect <vector file> [--format json|yaml|toml] [--resolve-offload] [--json] [--explain]")
}
