// Package doctor diagnoses a vector workspace: the project config, the
// vectors directory, the documents in it, and their offload sidecars. Every
// finding carries a stable name and, where one exists, a fix command.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aminfa/assert-tv/core/codec"
	"github.com/aminfa/assert-tv/core/offload"
	"github.com/aminfa/assert-tv/core/projectconfig"
	"github.com/aminfa/assert-tv/core/schema/validate"
)

const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "fail"
)

type Options struct {
	WorkDir    string
	ConfigPath string
	Version    string
}

type Result struct {
	CreatedAt   string   `json:"created_at"`
	Version     string   `json:"version"`
	Status      string   `json:"status"`
	NonFixable  bool     `json:"non_fixable"`
	Summary     string   `json:"summary"`
	FixCommands []string `json:"fix_commands"`
	Checks      []Check  `json:"checks"`
}

type Check struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	FixCommand string `json:"fix_command,omitempty"`
	NonFixable bool   `json:"non_fixable,omitempty"`
}

func Run(opts Options) Result {
	workDir := strings.TrimSpace(opts.WorkDir)
	if workDir == "" {
		workDir = "."
	}
	configPath := strings.TrimSpace(opts.ConfigPath)
	if configPath == "" {
		configPath = projectconfig.DefaultPath
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}
	producerVersion := strings.TrimSpace(opts.Version)
	if producerVersion == "" {
		producerVersion = "0.0.0-dev"
	}

	configCheck, configuration := checkProjectConfig(configPath)
	dirCheck, vectorsDir := checkVectorsDir(workDir, configuration)

	checks := []Check{
		checkWorkDirWritable(workDir),
		checkSchema(),
		configCheck,
		dirCheck,
	}
	if vectorsDir != "" {
		checks = append(checks, checkVectorFiles(vectorsDir), checkSidecars(vectorsDir))
	}

	failed := 0
	warned := 0
	nonFixable := false
	fixCommands := make([]string, 0, len(checks))
	seenFixes := map[string]struct{}{}
	for _, check := range checks {
		switch check.Status {
		case statusFail:
			failed++
		case statusWarn:
			warned++
		}
		if check.NonFixable {
			nonFixable = true
		}
		if check.FixCommand != "" {
			if _, ok := seenFixes[check.FixCommand]; !ok {
				seenFixes[check.FixCommand] = struct{}{}
				fixCommands = append(fixCommands, check.FixCommand)
			}
		}
	}

	status := statusPass
	if failed > 0 {
		status = statusFail
	} else if warned > 0 {
		status = statusWarn
	}

	sort.Strings(fixCommands)
	summary := fmt.Sprintf("doctor: status=%s failed=%d warned=%d non_fixable=%t", status, failed, warned, nonFixable)

	return Result{
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Version:     producerVersion,
		Status:      status,
		NonFixable:  nonFixable,
		Summary:     summary,
		FixCommands: fixCommands,
		Checks:      checks,
	}
}

func checkWorkDirWritable(workDir string) Check {
	info, err := os.Stat(workDir)
	if err != nil {
		return Check{
			Name:       "workdir",
			Status:     statusFail,
			Message:    fmt.Sprintf("workdir not accessible: %v", err),
			FixCommand: fmt.Sprintf("mkdir -p %s", shellQuote(workDir)),
		}
	}
	if !info.IsDir() {
		return Check{
			Name:       "workdir",
			Status:     statusFail,
			Message:    "workdir is not a directory",
			FixCommand: fmt.Sprintf("mkdir -p %s", shellQuote(workDir)),
		}
	}
	testPath := filepath.Join(workDir, ".assert-tv-doctor-writecheck")
	if err := os.WriteFile(testPath, []byte("ok"), 0o600); err != nil {
		return Check{
			Name:       "workdir",
			Status:     statusFail,
			Message:    fmt.Sprintf("workdir not writable: %v", err),
			FixCommand: fmt.Sprintf("chmod u+w %s", shellQuote(workDir)),
		}
	}
	_ = os.Remove(testPath)
	return Check{
		Name:    "workdir",
		Status:  statusPass,
		Message: "workdir is writable",
	}
}

// checkSchema compiles the embedded vector schema. A failure here means a
// corrupt build; no local command can fix it.
func checkSchema() Check {
	if _, err := validate.VectorSchema(); err != nil {
		return Check{
			Name:       "vector_schema",
			Status:     statusFail,
			Message:    fmt.Sprintf("embedded vector schema does not compile: %v", err),
			NonFixable: true,
		}
	}
	return Check{
		Name:    "vector_schema",
		Status:  statusPass,
		Message: "embedded vector schema compiles",
	}
}

func checkProjectConfig(configPath string) (Check, projectconfig.Config) {
	configuration, err := projectconfig.Load(configPath, true)
	if err != nil {
		return Check{
			Name:    "project_config",
			Status:  statusFail,
			Message: fmt.Sprintf("project config unreadable: %v", err),
		}, projectconfig.Config{}
	}
	if _, statErr := os.Stat(configPath); statErr != nil {
		return Check{
			Name:    "project_config",
			Status:  statusWarn,
			Message: fmt.Sprintf("no project config at %s; vector paths resolve against the working directory", configPath),
		}, configuration
	}
	return Check{
		Name:    "project_config",
		Status:  statusPass,
		Message: fmt.Sprintf("project config parsed: %s", configPath),
	}, configuration
}

func checkVectorsDir(workDir string, configuration projectconfig.Config) (Check, string) {
	dir := strings.TrimSpace(configuration.Vectors.Dir)
	if dir == "" {
		return Check{
			Name:    "vectors_dir",
			Status:  statusWarn,
			Message: "no vectors.dir configured; skipping vector file checks",
		}, ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workDir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Check{
			Name:       "vectors_dir",
			Status:     statusFail,
			Message:    fmt.Sprintf("vectors directory not accessible: %v", err),
			FixCommand: fmt.Sprintf("mkdir -p %s", shellQuote(dir)),
		}, ""
	}
	if !info.IsDir() {
		return Check{
			Name:    "vectors_dir",
			Status:  statusFail,
			Message: fmt.Sprintf("vectors path is not a directory: %s", dir),
		}, ""
	}
	return Check{
		Name:    "vectors_dir",
		Status:  statusPass,
		Message: fmt.Sprintf("vectors directory present: %s", dir),
	}, dir
}

// checkVectorFiles decodes and schema-validates every vector document under
// dir, and confirms each offloaded entry still has its sidecar.
func checkVectorFiles(dir string) Check {
	paths, err := listVectorFiles(dir)
	if err != nil {
		return Check{
			Name:    "vector_files",
			Status:  statusFail,
			Message: fmt.Sprintf("walk vectors directory: %v", err),
		}
	}
	if len(paths) == 0 {
		return Check{
			Name:    "vector_files",
			Status:  statusWarn,
			Message: fmt.Sprintf("no vector files under %s; run your suite in init mode to record some", dir),
		}
	}

	var problems []string
	for _, path := range paths {
		if problem := examineVectorFile(path); problem != "" {
			problems = append(problems, problem)
		}
	}
	if len(problems) > 0 {
		return Check{
			Name:    "vector_files",
			Status:  statusFail,
			Message: fmt.Sprintf("%d of %d vector files unhealthy: %s", len(problems), len(paths), strings.Join(clip(problems, 3), "; ")),
		}
	}
	return Check{
		Name:    "vector_files",
		Status:  statusPass,
		Message: fmt.Sprintf("%d vector files decode and validate", len(paths)),
	}
}

func examineVectorFile(path string) string {
	format, err := codec.FormatForPath(path)
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}
	if err := validate.VectorFile(path, format); err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}
	// #nosec G304 -- path comes from walking the configured vectors dir.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}
	document, err := codec.Decode(data, format)
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}
	for index, entry := range document.Entries {
		if !entry.Offload {
			continue
		}
		sidecar := offload.SidecarPath(path, index)
		if _, err := os.Stat(sidecar); err != nil {
			return fmt.Sprintf("%s: entry %d offloaded but sidecar missing (%s)", path, index, sidecar)
		}
	}
	return ""
}

// checkSidecars flags sidecar files whose vector document is gone.
func checkSidecars(dir string) Check {
	var orphans []string
	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		vectorPath, _, ok := offload.ParseSidecarPath(path)
		if !ok {
			return nil
		}
		if _, statErr := os.Stat(vectorPath); statErr != nil {
			orphans = append(orphans, path)
		}
		return nil
	})
	if walkErr != nil {
		return Check{
			Name:    "sidecars",
			Status:  statusFail,
			Message: fmt.Sprintf("walk vectors directory: %v", walkErr),
		}
	}
	if len(orphans) > 0 {
		sort.Strings(orphans)
		return Check{
			Name:       "sidecars",
			Status:     statusWarn,
			Message:    fmt.Sprintf("%d orphaned sidecar files: %s", len(orphans), strings.Join(clip(orphans, 3), "; ")),
			FixCommand: fmt.Sprintf("rm %s", shellQuote(orphans[0])),
		}
	}
	return Check{
		Name:    "sidecars",
		Status:  statusPass,
		Message: "no orphaned sidecar files",
	}
}

func listVectorFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, formatErr := codec.FormatForPath(path); formatErr != nil {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func clip(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	clipped := make([]string, 0, limit+1)
	clipped = append(clipped, items[:limit]...)
	clipped = append(clipped, fmt.Sprintf("and %d more", len(items)-limit))
	return clipped
}

func shellQuote(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
