package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

const yamlDefinition = `
name: flatdata-cpp
axes:
  toolchain:
    gcc:
      CC: gcc
      CXX: g++
    clang:
      CC: clang
      CXX: clang++
provision:
  installer: apt-get install -y
  packages: [cmake, libboost-dev]
  tools:
    - name: cmake
      version: ">= 3.10"
stages:
  - name: generate
    run: ./generator -s schema.fbs -g cpp -O gen
  - name: build-and-test
    run: |
      mkdir build && cd build
      cmake .. && make && ctest
workers: 2
`

func TestLoadYAML(t *testing.T) {
	path := writeDefinition(t, "pipeline.yml", yamlDefinition)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "flatdata-cpp" {
		t.Errorf("Name = %q, want flatdata-cpp", cfg.Name)
	}
	if got := len(cfg.Axes["toolchain"]); got != 2 {
		t.Errorf("toolchain variants = %d, want 2", got)
	}
	if cc := cfg.Axes["toolchain"]["clang"]["CC"]; cc != "clang" {
		t.Errorf("clang CC = %q, want clang", cc)
	}
	if len(cfg.Stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(cfg.Stages))
	}
	if cfg.Stages[1].Name != "build-and-test" {
		t.Errorf("stage[1] = %q, want build-and-test", cfg.Stages[1].Name)
	}
	if len(cfg.Provision.Packages) != 2 {
		t.Errorf("packages = %d, want 2", len(cfg.Provision.Packages))
	}
	if cfg.Provision.Tools[0].Version != ">= 3.10" {
		t.Errorf("tool constraint = %q", cfg.Provision.Tools[0].Version)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Workers)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeDefinition(t, "pipeline.toml", `
name = "flatdata-cpp"

[axes.toolchain.gcc]
CC = "gcc"
CXX = "g++"

[axes.toolchain.clang]
CC = "clang"
CXX = "clang++"

[[stages]]
name = "build"
run = "make"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(cfg.Axes["toolchain"]); got != 2 {
		t.Errorf("toolchain variants = %d, want 2", got)
	}
	if cfg.Stages[0].Run != "make" {
		t.Errorf("stage run = %q, want make", cfg.Stages[0].Run)
	}
}

func TestLoadDefaultsNameFromFile(t *testing.T) {
	path := writeDefinition(t, "nightly.yml", "stages:\n  - name: build\n    run: make\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "nightly" {
		t.Errorf("Name = %q, want nightly", cfg.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeDefinition(t, "broken.yml", "stages: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected parse error")
	}
}
