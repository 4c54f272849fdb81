package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Name: "test",
		Axes: map[string]map[string]map[string]string{
			"toolchain": {
				"gcc":   {"CC": "gcc", "CXX": "g++"},
				"clang": {"CC": "clang", "CXX": "clang++"},
			},
		},
		Stages: []StageConfig{
			{Name: "generate", Run: "true"},
			{Name: "build-and-test", Run: "true"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		problem string
	}{
		{
			name:    "no axes",
			mutate:  func(c *Config) { c.Axes = nil },
			problem: "at least one axis",
		},
		{
			name: "empty axis",
			mutate: func(c *Config) {
				c.Axes["toolchain"] = map[string]map[string]string{}
			},
			problem: "declares no variants",
		},
		{
			name:    "no stages",
			mutate:  func(c *Config) { c.Stages = nil },
			problem: "at least one stage",
		},
		{
			name: "duplicate stage name",
			mutate: func(c *Config) {
				c.Stages = append(c.Stages, StageConfig{Name: "generate", Run: "true"})
			},
			problem: "duplicate stage name",
		},
		{
			name: "stage without run",
			mutate: func(c *Config) {
				c.Stages[0].Run = "  "
			},
			problem: "run is required",
		},
		{
			name: "overlapping axis variables",
			mutate: func(c *Config) {
				c.Axes["mode"] = map[string]map[string]string{
					"debug": {"CC": "gcc-12"},
				}
			},
			problem: "claimed by both",
		},
		{
			name: "packages without installer",
			mutate: func(c *Config) {
				c.Provision.Packages = []string{"cmake"}
			},
			problem: "installer is required",
		},
		{
			name: "bad tool constraint",
			mutate: func(c *Config) {
				c.Provision.Tools = []ToolConfig{{Name: "cmake", Version: "not-a-range"}}
			},
			problem: "bad version constraint",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			problem: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate: expected error")
			}

			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate: got %T, want *ConfigurationError", err)
			}
			if !strings.Contains(err.Error(), tt.problem) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.problem)
			}
		})
	}
}
