package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matrixci/matrixci/src/pipeline"
)

// WriteJSON writes the full per-job/per-stage breakdown as report.json.
// This is the machine-readable surface consumed by badge generation and
// downstream tooling.
func WriteJSON(dir string, res *pipeline.PipelineResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a previously written report.json.
func ReadJSON(path string) (*pipeline.PipelineResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res := &pipeline.PipelineResult{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}
