// Package export writes the results of a run to disk: a JSON or YAML
// summary, an XLSX workbook and an HTML chart page.
package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/webhook-reporter/webhook-reporter/internal/checks"
	"github.com/webhook-reporter/webhook-reporter/internal/errorcounter"
	"github.com/webhook-reporter/webhook-reporter/internal/pipeline"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Files written by Save.
const (
	SummaryFile  = "summary.json"
	WorkbookFile = "coverage.xlsx"
	ChartFile    = "coverage.html"
)

// Summary is the serializable result of a run.
type Summary struct {
	Generated      time.Time            `json:"generated" yaml:"generated"`
	Threshold      float64              `json:"threshold" yaml:"threshold"`
	Coverage       *api.CoverageReport  `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	CoverageStatus api.CoverageStatus   `json:"coverageStatus,omitempty" yaml:"coverageStatus,omitempty"`
	Tests          *api.TestReport      `json:"tests,omitempty" yaml:"tests,omitempty"`
	TestSummary    *api.TestSummary     `json:"testSummary,omitempty" yaml:"testSummary,omitempty"`
	Failures       errorcounter.Counter `json:"failurePatterns,omitempty" yaml:"failurePatterns,omitempty"`
	Checks         *checks.Summary      `json:"checks" yaml:"checks"`
	Timers         map[string]float64   `json:"timers,omitempty" yaml:"timers,omitempty"`
}

// NewSummary collects the result of a run.
func NewSummary(res *pipeline.Result, threshold float64) *Summary {
	s := &Summary{
		Generated: time.Now().UTC(),
		Threshold: threshold,
		Coverage:  res.Coverage,
		Tests:     res.Tests,
		Failures:  res.Failures,
		Checks: checks.NewSummary(checks.Input{
			Coverage:  res.Coverage,
			Tests:     res.Tests,
			Threshold: threshold,
		}).Run(),
	}
	if res.Timers != nil {
		s.Timers = res.Timers.Snapshot()
	}
	if res.Coverage != nil {
		s.CoverageStatus = res.Coverage.Status(threshold)
	}
	if res.Tests != nil {
		summary := res.Tests.Summary()
		s.TestSummary = &summary
	}
	return s
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Save writes the summary, workbook and chart page into dir, creating it
// when needed. It returns the written paths.
func Save(dir string, s *Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create directory %s", dir)
	}

	writers := []struct {
		name  string
		write func(io.Writer, *Summary) error
	}{
		{SummaryFile, func(w io.Writer, s *Summary) error { return WriteJSON(w, s) }},
		{WorkbookFile, WriteWorkbook},
		{ChartFile, WriteChart},
	}

	var written []string
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeFile(path, s, wr.write); err != nil {
			return written, err
		}
		log.Debugf("saved %s", path)
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, s *Summary, write func(io.Writer, *Summary) error) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	if err := write(fd, s); err != nil {
		fd.Close()
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return fd.Close()
}
