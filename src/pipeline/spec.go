// Package pipeline runs expanded matrix jobs: provisioning, ordered stages,
// and result aggregation.
package pipeline

// JobSpec is one fully-expanded matrix cell. It is created by the matrix
// expander and immutable afterwards.
type JobSpec struct {
	Name      string            // unique within a pipeline, e.g. "gcc"
	Env       map[string]string // axis substitutions, e.g. CC=gcc CXX=g++
	Stages    []StageSpec       // ordered; never shared with sibling jobs
	Provision Provision
}

// StageSpec is one ordered unit of work within a job.
type StageSpec struct {
	Name string            // human-readable label, e.g. "build-and-test"
	Run  string            // shell script, executed via sh -c
	Dir  string            // working directory, empty = inherit
	Env  map[string]string // per-stage overrides, applied over JobSpec.Env
}

// Provision declares the external dependencies a job needs before any
// stage runs.
type Provision struct {
	Installer string   // install command prefix, e.g. "apt-get install -y"
	Packages  []string // package identifiers, installed one at a time
	Tools     []ToolRequirement
}

// ToolRequirement pins a provisioned tool to a semver constraint.
// The tool's version is probed with "<name> --version" unless Probe
// overrides the command.
type ToolRequirement struct {
	Name    string
	Version string // semver constraint, e.g. ">= 3.10"
	Probe   string // optional probe command, defaults to "<name> --version"
}
