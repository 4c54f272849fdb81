// Package matrix expands axis declarations into the cross-product of jobs.
package matrix

import (
	"sort"
	"strings"

	"github.com/matrixci/matrixci/src/config"
	"github.com/matrixci/matrixci/src/pipeline"
)

// Expand produces one JobSpec per combination of axis variants. Axis and
// variant names are walked in lexical order so expansion is deterministic:
// a single axis {gcc, clang} yields jobs "clang", "gcc"; two axes yield
// names like "clang-debug". Each job gets its own copy of the stage list
// with the variant environment applied — stages are never shared.
//
// Expand assumes the Config has passed config.Validate; it is a pure
// function of its input.
func Expand(cfg *config.Config) []pipeline.JobSpec {
	axes := make([]string, 0, len(cfg.Axes))
	for name := range cfg.Axes {
		axes = append(axes, name)
	}
	sort.Strings(axes)

	jobs := []pipeline.JobSpec{{Env: map[string]string{}}}

	for _, axis := range axes {
		variants := make([]string, 0, len(cfg.Axes[axis]))
		for v := range cfg.Axes[axis] {
			variants = append(variants, v)
		}
		sort.Strings(variants)

		next := make([]pipeline.JobSpec, 0, len(jobs)*len(variants))
		for _, job := range jobs {
			for _, variant := range variants {
				env := make(map[string]string, len(job.Env)+len(cfg.Axes[axis][variant]))
				for k, v := range job.Env {
					env[k] = v
				}
				for k, v := range cfg.Axes[axis][variant] {
					env[k] = v
				}

				name := variant
				if job.Name != "" {
					name = job.Name + "-" + variant
				}
				next = append(next, pipeline.JobSpec{Name: name, Env: env})
			}
		}
		jobs = next
	}

	for i := range jobs {
		jobs[i].Stages = copyStages(cfg.Stages)
		jobs[i].Provision = pipeline.Provision{
			Installer: cfg.Provision.Installer,
			Packages:  append([]string(nil), cfg.Provision.Packages...),
			Tools:     copyTools(cfg.Provision.Tools),
		}
	}
	return jobs
}

// copyStages gives each job an independent stage list.
func copyStages(stages []config.StageConfig) []pipeline.StageSpec {
	out := make([]pipeline.StageSpec, len(stages))
	for i, s := range stages {
		env := make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			env[k] = v
		}
		out[i] = pipeline.StageSpec{
			Name: s.Name,
			Run:  strings.TrimRight(s.Run, "\n"),
			Dir:  s.Dir,
			Env:  env,
		}
	}
	return out
}

func copyTools(tools []config.ToolConfig) []pipeline.ToolRequirement {
	out := make([]pipeline.ToolRequirement, len(tools))
	for i, t := range tools {
		out[i] = pipeline.ToolRequirement{Name: t.Name, Version: t.Version, Probe: t.Probe}
	}
	return out
}
