// Package config loads and validates pipeline definition documents.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is a declarative pipeline definition.
type Config struct {
	// Name identifies the pipeline in reports. Defaults to the file name.
	Name string `yaml:"name" toml:"name"`

	// Triggers are CI-platform trigger declarations. They are carried
	// through to whatever invokes the runner and never interpreted.
	Triggers map[string]any `yaml:"triggers,omitempty" toml:"triggers,omitempty"`

	// Axes maps axis name to its variants; each variant is a set of
	// environment substitutions, e.g.
	// toolchain: {gcc: {CC: gcc, CXX: g++}, clang: {CC: clang, CXX: clang++}}.
	Axes map[string]map[string]map[string]string `yaml:"axes" toml:"axes"`

	Provision ProvisionConfig `yaml:"provision,omitempty" toml:"provision,omitempty"`

	// Stages is the common stage list every expanded job runs, in order.
	Stages []StageConfig `yaml:"stages" toml:"stages"`

	// Workers bounds concurrent jobs. 0 means one per CPU.
	Workers int `yaml:"workers,omitempty" toml:"workers,omitempty"`
}

// ProvisionConfig declares the external dependencies installed before any
// stage of a job runs.
type ProvisionConfig struct {
	Installer string       `yaml:"installer,omitempty" toml:"installer,omitempty"`
	Packages  []string     `yaml:"packages,omitempty" toml:"packages,omitempty"`
	Tools     []ToolConfig `yaml:"tools,omitempty" toml:"tools,omitempty"`
}

// ToolConfig requires a provisioned tool to satisfy a semver constraint.
type ToolConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`
	Probe   string `yaml:"probe,omitempty" toml:"probe,omitempty"`
}

// StageConfig declares one named stage.
type StageConfig struct {
	Name string            `yaml:"name" toml:"name"`
	Run  string            `yaml:"run" toml:"run"`
	Dir  string            `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Env  map[string]string `yaml:"env,omitempty" toml:"env,omitempty"`
}

// Load reads a pipeline definition from a YAML or TOML file, chosen by
// extension. The result is not validated; call Validate before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if cfg.Name == "" {
		base := filepath.Base(path)
		cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return cfg, nil
}
