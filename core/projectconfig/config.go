package projectconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const DefaultPath = ".assert-tv/config.yaml"

type Config struct {
	Vectors VectorDefaults `yaml:"vectors"`
}

// VectorDefaults carries repository-wide defaults for test vector files.
// All fields are optional; empty values defer to per-call settings (format
// from the file extension, mode from TEST_MODE).
type VectorDefaults struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
	Mode   string `yaml:"mode"`
}

func Load(path string, allowMissing bool) (Config, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return Config{}, fmt.Errorf("project config path is required")
	}

	// #nosec G304 -- project config path is explicit local user input.
	content, err := os.ReadFile(trimmedPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read project config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return Config{}, nil
	}

	var configuration Config
	if err := yaml.Unmarshal(content, &configuration); err != nil {
		return Config{}, fmt.Errorf("parse project config: %w", err)
	}
	configuration.normalize()
	return configuration, nil
}

func (configuration *Config) normalize() {
	configuration.Vectors.Dir = strings.TrimSpace(configuration.Vectors.Dir)
	configuration.Vectors.Format = strings.ToLower(strings.TrimSpace(configuration.Vectors.Format))
	configuration.Vectors.Mode = strings.ToLower(strings.TrimSpace(configuration.Vectors.Mode))
}

// VectorPath resolves a vector file name against the configured vectors
// directory. Names that are already absolute or that contain a separator
// are taken as-is.
func (configuration Config) VectorPath(name string) string {
	if configuration.Vectors.Dir == "" || filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(configuration.Vectors.Dir, name)
}
