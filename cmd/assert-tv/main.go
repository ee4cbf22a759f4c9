package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	if len(arguments) < 2 {
		fmt.Println("assert-tv", version)
		return exitOK
	}
	if arguments[1] == "--explain" {
		return writeExplain("assert-tv inspects, validates, converts, and fingerprints recorded test vector files.")
	}

	switch arguments[1] {
	case "inspect":
		return runInspect(arguments[2:])
	case "validate":
		return runValidate(arguments[2:])
	case "convert":
		return runConvert(arguments[2:])
	case "digest":
		return runDigest(arguments[2:])
	case "doctor":
		return runDoctor(arguments[2:])
	case "version", "--version", "-v":
		if hasExplainFlag(arguments[2:]) {
			return writeExplain("Print the assert-tv version.")
		}
		fmt.Println("assert-tv", version)
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assert-tv inspect <vector file> [--format json|yaml|toml] [--resolve-offload] [--json]")
	fmt.Println("  assert-tv validate [vector files...] [--config <path>] [--json]")
	fmt.Println("  assert-tv convert <vector file> --to json|yaml|toml [--out <path>] [--json]")
	fmt.Println("  assert-tv digest <vector file> [--format json|yaml|toml] [--json]")
	fmt.Println("  assert-tv doctor [--workdir <path>] [--config <path>] [--strict] [--json]")
	fmt.Println("  assert-tv version")
	fmt.Println("")
	fmt.Println("Run 'assert-tv <command> --explain' for a one-line description.")
}
