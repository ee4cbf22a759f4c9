package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/projectconfig"
	"github.com/aminfa/assert-tv/core/schema/validate"
)

type validateFileResult struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type validateOutput struct {
	OK      bool                 `json:"ok"`
	Checked int                  `json:"checked"`
	Failed  int                  `json:"failed,omitempty"`
	Files   []validateFileResult `json:"files,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func runValidate(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Validate test vector files against the versioned vector schema.")
	}
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"config": true,
	})
	flagSet := flag.NewFlagSet("validate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var configFlag string
	var helpFlag bool

	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.StringVar(&configFlag, "config", "", "project config path (default: "+projectconfig.DefaultPath+")")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeValidateOutput(jsonOutput, validateOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	if helpFlag {
		printValidateUsage()
		return exitOK
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		collected, err := collectConfiguredVectors(configFlag)
		if err != nil {
			return writeValidateOutput(jsonOutput, validateOutput{OK: false, Error: err.Error()}, exitCodeForError(err, exitInvalidInput))
		}
		paths = collected
	}
	if len(paths) == 0 {
		return writeValidateOutput(jsonOutput, validateOutput{OK: false, Error: "no vector files to validate"}, exitInvalidInput)
	}

	results := make([]validateFileResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		result := validateFileResult{Path: path, OK: true}
		if err := validateVectorFile(path); err != nil {
			result.OK = false
			result.Error = err.Error()
			failed++
		}
		results = append(results, result)
	}

	output := validateOutput{
		OK:      failed == 0,
		Checked: len(results),
		Failed:  failed,
		Files:   results,
	}
	exitCode := exitOK
	if failed > 0 {
		output.Error = fmt.Sprintf("%d of %d vector files failed validation", failed, len(results))
		exitCode = exitVerifyFailed
	}
	return writeValidateOutput(jsonOutput, output, exitCode)
}

func validateVectorFile(path string) error {
	format, err := codec.FormatForPath(path)
	if err != nil {
		return err
	}
	return validate.VectorFile(path, format)
}

// collectConfiguredVectors resolves the vectors directory from the project
// config and returns every vector file under it.
func collectConfiguredVectors(configFlag string) ([]string, error) {
	configPath := strings.TrimSpace(configFlag)
	allowMissing := false
	if configPath == "" {
		configPath = projectconfig.DefaultPath
		allowMissing = true
	}
	configuration, err := projectconfig.Load(configPath, allowMissing)
	if err != nil {
		return nil, err
	}
	dir := strings.TrimSpace(configuration.Vectors.Dir)
	if dir == "" {
		return nil, fmt.Errorf("no vector files named and no vectors.dir configured in %s", configPath)
	}

	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, formatErr := codec.FormatForPath(path); formatErr != nil {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk vectors directory %s: %w", dir, walkErr)
	}
	sort.Strings(paths)
	return paths, nil
}

func writeValidateOutput(jsonOutput bool, output validateOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.Error != "" && output.Checked == 0 {
		fmt.Printf("validate error: %s\n", output.Error)
		return exitCode
	}
	for _, file := range output.Files {
		if file.OK {
			fmt.Printf("ok: %s\n", file.Path)
			continue
		}
		fmt.Printf("invalid: %s\n", file.Path)
		fmt.Printf("   %s\n", file.Error)
	}
	if output.OK {
		fmt.Printf("validate ok: %d vector files\n", output.Checked)
	} else {
		fmt.Printf("validate failed: %s\n", output.Error)
	}
	return exitCode
}

func printValidateUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv validate [vector files...] [--config <path>] [--json] [--explain]")
	fmt.Println("")
	fmt.Println("With no file arguments, validates every vector file under the")
	fmt.Println("vectors.dir named by the project config.")
}
