package badge

import "github.com/matrixci/matrixci/src/pipeline"

// Engine generates SVG badges using a specific font.
type Engine struct {
	metrics *FontMetrics
}

// New creates a badge engine with the given font metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Badge defines the content and appearance of a single badge.
type Badge struct {
	Label string // left side text
	Value string // right side text
	Color string // hex color for right side (e.g. "#4c1")
}

// Generate produces a shields.io-compatible SVG badge string.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// FromResult builds the build-status badge for a pipeline result.
func FromResult(res *pipeline.PipelineResult) Badge {
	value := "failing"
	if res.Passed {
		value = "passing"
	}
	return Badge{
		Label: "build",
		Value: value,
		Color: StatusColor(value),
	}
}

// StatusColor maps a status keyword to a badge hex color.
func StatusColor(status string) string {
	switch status {
	case "passing", "passed":
		return "#4c1"
	case "cancelled":
		return "#dfb317"
	default:
		return "#e05d44"
	}
}
