package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matrixci/matrixci/src/pipeline"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// GitLab collapsible section helpers.

func SectionStart(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", ts, id, name)
}

func SectionEnd(w io.Writer, id string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", ts, id)
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SkippedEl *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit writes the pipeline result as JUnit XML: one suite per job,
// one case per stage. A provision-failed job becomes a suite with a single
// failing "provision" case so the failure is visible in test reports.
func WriteJUnit(dir string, res *pipeline.PipelineResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	root := JUnitTestSuites{
		Name: res.Pipeline,
		Time: fmt.Sprintf("%.3f", res.Duration.Seconds()),
	}

	for _, job := range res.Jobs {
		suite := JUnitTestSuite{
			Name: res.Pipeline + "/" + job.Job,
			Time: fmt.Sprintf("%.3f", job.Duration.Seconds()),
		}

		if job.ProvisionError != "" {
			suite.Cases = append(suite.Cases, JUnitTestCase{
				Name:      "provision",
				Classname: res.Pipeline + "." + job.Job,
				Time:      "0.000",
				Failure: &JUnitFailure{
					Message: "provisioning failed",
					Type:    "ProvisioningError",
					Body:    job.ProvisionError,
				},
			})
			suite.Tests++
			suite.Failures++
		}

		for _, st := range job.Stages {
			tc := JUnitTestCase{
				Name:      st.Name,
				Classname: res.Pipeline + "." + job.Job,
				Time:      fmt.Sprintf("%.3f", st.Duration().Seconds()),
			}
			switch st.Status {
			case pipeline.Passed:
			case pipeline.Skipped:
				tc.SkippedEl = &JUnitSkipped{Message: "earlier stage failed"}
				suite.Skipped++
			case pipeline.Cancelled:
				tc.SkippedEl = &JUnitSkipped{Message: "cancelled"}
				suite.Skipped++
			default:
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("stage exited %d", st.ExitCode),
					Type:    string(st.Status),
					Body:    st.Output,
				}
				suite.Failures++
			}
			suite.Cases = append(suite.Cases, tc)
			suite.Tests++
		}

		root.Tests += suite.Tests
		root.Failures += suite.Failures
		root.Skipped += suite.Skipped
		root.Suites = append(root.Suites, suite)
	}

	path := filepath.Join(dir, "junit.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	f.WriteString(xml.Header)
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	f.WriteString("\n")

	return nil
}
