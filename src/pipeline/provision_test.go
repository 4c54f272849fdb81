package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func testProvisioner() *Provisioner {
	return &Provisioner{Stderr: io.Discard}
}

func TestProvisionInstallsEachPackage(t *testing.T) {
	requireShell(t)

	p := testProvisioner()
	err := p.Apply(context.Background(), Provision{
		Installer: "echo installing",
		Packages:  []string{"cmake", "libboost-dev"},
	}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestProvisionNamesFailedPackage(t *testing.T) {
	requireShell(t)

	p := testProvisioner()
	err := p.Apply(context.Background(), Provision{
		Installer: "false",
		Packages:  []string{"libflaky-dev"},
	}, nil)
	if err == nil {
		t.Fatal("Apply: expected error")
	}

	var provErr *ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("Apply: got %T, want *ProvisioningError", err)
	}
	if provErr.Package != "libflaky-dev" {
		t.Errorf("Package = %q, want libflaky-dev", provErr.Package)
	}
}

func TestProvisionToolConstraintSatisfied(t *testing.T) {
	requireShell(t)

	p := testProvisioner()
	err := p.Apply(context.Background(), Provision{
		Tools: []ToolRequirement{{
			Name:    "cmake",
			Version: ">= 3.10",
			Probe:   "echo cmake version 3.27.1",
		}},
	}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestProvisionToolConstraintViolated(t *testing.T) {
	requireShell(t)

	p := testProvisioner()
	err := p.Apply(context.Background(), Provision{
		Tools: []ToolRequirement{{
			Name:    "cmake",
			Version: ">= 4.0",
			Probe:   "echo cmake version 3.27.1",
		}},
	}, nil)
	if err == nil {
		t.Fatal("Apply: expected constraint violation")
	}

	var provErr *ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("Apply: got %T, want *ProvisioningError", err)
	}
	if provErr.Package != "cmake" {
		t.Errorf("Package = %q, want cmake", provErr.Package)
	}
	if !strings.Contains(provErr.Err.Error(), "does not satisfy") {
		t.Errorf("Err = %v", provErr.Err)
	}
}

func TestProvisionToolProbeWithoutVersion(t *testing.T) {
	requireShell(t)

	p := testProvisioner()
	err := p.Apply(context.Background(), Provision{
		Tools: []ToolRequirement{{
			Name:    "mystery",
			Version: ">= 1.0",
			Probe:   "echo no digits here",
		}},
	}, nil)
	if err == nil {
		t.Fatal("Apply: expected error for unparseable probe output")
	}
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"cmake version 3.27.1", "3.27.1"},
		{"g++ (Ubuntu 11.4.0-1ubuntu1) 11.4.0", "11.4.0"},
		{"clang version 14.0", "14.0.0"},
		{"no version", ""},
	}

	for _, tt := range tests {
		v := extractVersion(tt.out)
		switch {
		case tt.want == "" && v != nil:
			t.Errorf("extractVersion(%q) = %s, want none", tt.out, v)
		case tt.want != "" && (v == nil || v.String() != tt.want):
			t.Errorf("extractVersion(%q) = %v, want %s", tt.out, v, tt.want)
		}
	}
}
