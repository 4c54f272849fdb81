package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Provisioner installs the external dependencies a job declares. It runs
// once per job before any stage; installation mutates the host environment,
// so concurrent jobs rely on the installer being safe for concurrent
// callers (or on per-job isolation) — the runner does not arbitrate.
type Provisioner struct {
	Shell   string // defaults to "sh"
	Verbose bool
	Stderr  io.Writer
}

// NewProvisioner creates a provisioner writing diagnostics to stderr.
func NewProvisioner(verbose bool) *Provisioner {
	return &Provisioner{Verbose: verbose, Stderr: os.Stderr}
}

// Apply installs each declared package and checks each tool requirement.
// Packages are installed one invocation at a time so a failure names the
// dependency that broke. The first failure aborts with a ProvisioningError.
func (p *Provisioner) Apply(ctx context.Context, prov Provision, jobEnv map[string]string) error {
	for _, pkg := range prov.Packages {
		cmdline := prov.Installer + " " + pkg
		out, err := p.sh(ctx, cmdline, jobEnv)
		if err != nil {
			return &ProvisioningError{Package: pkg, Output: out, Err: err}
		}
	}

	for _, tool := range prov.Tools {
		if err := p.checkTool(ctx, tool, jobEnv); err != nil {
			return err
		}
	}
	return nil
}

// checkTool probes an installed tool's version and matches it against the
// requirement's semver constraint.
func (p *Provisioner) checkTool(ctx context.Context, tool ToolRequirement, jobEnv map[string]string) error {
	constraint, err := semver.NewConstraint(tool.Version)
	if err != nil {
		return &ProvisioningError{Package: tool.Name, Err: fmt.Errorf("bad constraint %q: %w", tool.Version, err)}
	}

	probe := tool.Probe
	if probe == "" {
		probe = tool.Name + " --version"
	}
	out, err := p.sh(ctx, probe, jobEnv)
	if err != nil {
		return &ProvisioningError{Package: tool.Name, Output: out, Err: fmt.Errorf("probing version: %w", err)}
	}

	ver := extractVersion(out)
	if ver == nil {
		return &ProvisioningError{Package: tool.Name, Output: out, Err: fmt.Errorf("no version found in probe output")}
	}
	if !constraint.Check(ver) {
		return &ProvisioningError{
			Package: tool.Name,
			Output:  out,
			Err:     fmt.Errorf("version %s does not satisfy %q", ver, tool.Version),
		}
	}
	return nil
}

func (p *Provisioner) sh(ctx context.Context, cmdline string, jobEnv map[string]string) (string, error) {
	shell := p.Shell
	if shell == "" {
		shell = "sh"
	}
	if p.Verbose {
		fmt.Fprintf(p.Stderr, "provision: %s\n", cmdline)
	}

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", cmdline)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.Env = mergeEnv(os.Environ(), jobEnv)
	err := cmd.Run()
	return buf.String(), err
}

var versionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// extractVersion pulls the first dotted version number out of probe output.
func extractVersion(out string) *semver.Version {
	match := versionRe.FindString(out)
	if match == "" {
		return nil
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil
	}
	return v
}
