package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/aminfa/assert-tv/core/doctor"
)

type doctorOutput struct {
	OK          bool           `json:"ok"`
	CreatedAt   string         `json:"created_at,omitempty"`
	Version     string         `json:"version,omitempty"`
	Status      string         `json:"status,omitempty"`
	NonFixable  bool           `json:"non_fixable,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	FixCommands []string       `json:"fix_commands,omitempty"`
	Checks      []doctor.Check `json:"checks,omitempty"`
	Error       string         `json:"error,omitempty"`
}

func runDoctor(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Diagnose a vector workspace: project config, vectors directory, document health, and offload sidecars.")
	}
	arguments = reorderInterspersedFlags(arguments, map[string]bool{
		"workdir": true,
		"config":  true,
	})
	flagSet := flag.NewFlagSet("doctor", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var workDir string
	var configFlag string
	var strict bool
	var jsonOutput bool
	var helpFlag bool

	flagSet.StringVar(&workDir, "workdir", ".", "workspace path for checks")
	flagSet.StringVar(&configFlag, "config", "", "project config path relative to workdir (default: .assert-tv/config.yaml)")
	flagSet.BoolVar(&strict, "strict", false, "exit non-zero when any check fails")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		return writeDoctorOutput(jsonOutput, doctorOutput{OK: false, Error: err.Error()}, exitInvalidInput)
	}
	if helpFlag {
		printDoctorUsage()
		return exitOK
	}
	if len(flagSet.Args()) > 0 {
		return writeDoctorOutput(jsonOutput, doctorOutput{OK: false, Error: "unexpected positional arguments"}, exitInvalidInput)
	}

	result := doctor.Run(doctor.Options{
		WorkDir:    workDir,
		ConfigPath: configFlag,
		Version:    version,
	})

	exitCode := exitOK
	ok := !result.NonFixable
	if result.NonFixable {
		exitCode = exitInternalFailure
	}
	if strict && result.Status == "fail" {
		exitCode = exitVerifyFailed
		ok = false
	}
	return writeDoctorOutput(jsonOutput, doctorOutput{
		OK:          ok,
		CreatedAt:   result.CreatedAt,
		Version:     result.Version,
		Status:      result.Status,
		NonFixable:  result.NonFixable,
		Summary:     result.Summary,
		FixCommands: result.FixCommands,
		Checks:      result.Checks,
	}, exitCode)
}

func writeDoctorOutput(jsonOutput bool, output doctorOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.Error != "" {
		fmt.Printf("doctor error: %s\n", output.Error)
		return exitCode
	}
	fmt.Println(output.Summary)
	for _, check := range output.Checks {
		if check.Status == "pass" {
			continue
		}
		fmt.Printf("- %s: %s (%s)\n", check.Name, check.Status, check.Message)
		if check.FixCommand != "" {
			fmt.Printf("  fix: %s\n", check.FixCommand)
		}
	}
	return exitCode
}

func printDoctorUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv doctor [--workdir <path>] [--config <path>] [--strict] [--json] [--explain]")
}
