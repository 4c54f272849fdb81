package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ConfigurationError is a malformed pipeline definition. It is always
// raised before any job is scheduled.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid pipeline definition: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid pipeline definition (%d problems):\n  - %s",
		len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Validate checks structural invariants of a loaded Config.
func Validate(cfg *Config) error {
	var errs []string

	// ── Axes ──────────────────────────────────────────────────────────────

	if len(cfg.Axes) == 0 {
		errs = append(errs, "axes: at least one axis is required")
	}

	// Each environment variable may belong to exactly one axis; overlapping
	// claims would make the cross-product ambiguous.
	claimedBy := map[string]string{}
	for axis, variants := range cfg.Axes {
		if len(variants) == 0 {
			errs = append(errs, fmt.Sprintf("axes.%s: axis declares no variants", axis))
			continue
		}
		vars := map[string]bool{}
		for variant, env := range variants {
			if variant == "" {
				errs = append(errs, fmt.Sprintf("axes.%s: variant name must not be empty", axis))
			}
			for name := range env {
				vars[name] = true
			}
		}
		for name := range vars {
			if other, ok := claimedBy[name]; ok && other != axis {
				first, second := sortedPair(other, axis)
				errs = append(errs, fmt.Sprintf("axes: variable %q claimed by both %s and %s", name, first, second))
			} else {
				claimedBy[name] = axis
			}
		}
	}

	// ── Stages ────────────────────────────────────────────────────────────

	if len(cfg.Stages) == 0 {
		errs = append(errs, "stages: at least one stage is required")
	}
	seen := map[string]bool{}
	for i, s := range cfg.Stages {
		spath := fmt.Sprintf("stages[%d]", i)
		if s.Name == "" {
			errs = append(errs, spath+": name is required")
		} else if seen[s.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate stage name %q", spath, s.Name))
		} else {
			seen[s.Name] = true
		}
		if strings.TrimSpace(s.Run) == "" {
			errs = append(errs, spath+": run is required")
		}
	}

	// ── Provision ─────────────────────────────────────────────────────────

	if len(cfg.Provision.Packages) > 0 && cfg.Provision.Installer == "" {
		errs = append(errs, "provision: installer is required when packages are declared")
	}
	for i, t := range cfg.Provision.Tools {
		tpath := fmt.Sprintf("provision.tools[%d]", i)
		if t.Name == "" {
			errs = append(errs, tpath+": name is required")
		}
		if t.Version == "" {
			errs = append(errs, tpath+": version constraint is required")
		} else if _, err := semver.NewConstraint(t.Version); err != nil {
			errs = append(errs, fmt.Sprintf("%s: bad version constraint %q: %v", tpath, t.Version, err))
		}
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers: must be >= 0, got %d", cfg.Workers))
	}

	if len(errs) > 0 {
		return &ConfigurationError{Problems: errs}
	}
	return nil
}

// sortedPair returns the two axis names in lexical order so the error
// message is stable regardless of map iteration order.
func sortedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
