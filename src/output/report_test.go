package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matrixci/matrixci/src/pipeline"
)

func sampleResult() *pipeline.PipelineResult {
	return &pipeline.PipelineResult{
		Pipeline: "flatdata-cpp",
		Passed:   false,
		Duration: 90 * time.Second,
		Jobs: []pipeline.JobResult{
			{
				Job:    "gcc",
				Status: pipeline.Passed,
				Stages: []pipeline.StageResult{
					{Name: "generate", Status: pipeline.Passed},
					{Name: "build-and-test", Status: pipeline.Passed},
				},
			},
			{
				Job:    "clang",
				Status: pipeline.Failed,
				Stages: []pipeline.StageResult{
					{Name: "generate", Status: pipeline.Passed},
					{Name: "build-and-test", Status: pipeline.Failed, ExitCode: 1, Output: "ld: undefined symbol\n"},
				},
			},
			{
				Job:            "msvc",
				Status:         pipeline.Failed,
				ProvisionError: "provisioning cl failed",
			},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := WriteJSON(dir, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	res, err := ReadJSON(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if res.Pipeline != "flatdata-cpp" || res.Passed {
		t.Errorf("round-tripped header = %q passed=%v", res.Pipeline, res.Passed)
	}
	if len(res.Jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(res.Jobs))
	}
	if res.Jobs[1].FailedStage() != "build-and-test" {
		t.Errorf("failed stage = %q", res.Jobs[1].FailedStage())
	}
	if res.Jobs[2].ProvisionError == "" {
		t.Error("provision diagnostic lost in round trip")
	}
}

func TestWriteJUnit(t *testing.T) {
	dir := t.TempDir()

	if err := WriteJUnit(dir, sampleResult()); err != nil {
		t.Fatalf("WriteJUnit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "junit.xml"))
	if err != nil {
		t.Fatalf("read junit.xml: %v", err)
	}
	xml := string(data)

	for _, want := range []string{
		`name="flatdata-cpp/gcc"`,
		`name="flatdata-cpp/clang"`,
		`name="flatdata-cpp/msvc"`,
		`name="build-and-test"`,
		`name="provision"`,
		`type="ProvisioningError"`,
		"ld: undefined symbol",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("junit.xml missing %q", want)
		}
	}

	// Two failures: clang's build stage and msvc's provision case.
	if !strings.Contains(xml, `failures="2"`) {
		t.Errorf("junit.xml missing aggregate failure count:\n%s", xml)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "<1ms"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
