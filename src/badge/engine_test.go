package badge

import (
	"strings"
	"testing"

	"github.com/matrixci/matrixci/src/pipeline"
)

func TestGenerateWithFallbackMetrics(t *testing.T) {
	e := New(DefaultMetrics(11))
	svg := e.Generate(Badge{Label: "build", Value: "passing", Color: "#4c1"})

	for _, want := range []string{"<svg", "build", "passing", "#4c1"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// No font file given: nothing to embed.
	if strings.Contains(svg, "@font-face") {
		t.Error("fallback badge should not embed a font")
	}
}

func TestFromResult(t *testing.T) {
	passed := FromResult(&pipeline.PipelineResult{Passed: true})
	if passed.Value != "passing" || passed.Color != StatusColor("passing") {
		t.Errorf("passed badge = %+v", passed)
	}

	failed := FromResult(&pipeline.PipelineResult{Passed: false})
	if failed.Value != "failing" || failed.Color != "#e05d44" {
		t.Errorf("failed badge = %+v", failed)
	}
}

func TestTextWidthGrowsWithText(t *testing.T) {
	m := DefaultMetrics(11)
	if m.TextWidth("build-and-test") <= m.TextWidth("build") {
		t.Error("longer text should measure wider")
	}
	if m.TextWidth("") != 0 {
		t.Errorf("empty text width = %v, want 0", m.TextWidth(""))
	}
}

func TestXMLEscape(t *testing.T) {
	if got := xmlEscape(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&quot;c&quot;" {
		t.Errorf("xmlEscape = %q", got)
	}
}

func TestDetectFontFormat(t *testing.T) {
	if got := detectFontFormat([]byte("OTTO....")); got != "otf" {
		t.Errorf("OTTO = %q, want otf", got)
	}
	if got := detectFontFormat([]byte{0, 1, 0, 0}); got != "ttf" {
		t.Errorf("sfnt = %q, want ttf", got)
	}
}
