// Package pipeline loads the coverage and test reports of a run.
package pipeline

import (
	"golang.org/x/sync/errgroup"

	"github.com/webhook-reporter/webhook-reporter/internal/errorcounter"
	"github.com/webhook-reporter/webhook-reporter/internal/metrics"
	"github.com/webhook-reporter/webhook-reporter/internal/parser"
	"github.com/webhook-reporter/webhook-reporter/internal/reader"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Timer keys recorded by Load.
const (
	TimerCoverage = "coverage"
	TimerTests    = "tests"
)

// Result holds the normalized reports of one run. Coverage or Tests is nil
// when the matching input was not given.
type Result struct {
	Coverage *api.CoverageReport
	Tests    *api.TestReport
	Failures errorcounter.Counter
	Timers   *metrics.Timers
}

// Load parses both inputs concurrently. Empty paths are skipped.
func Load(coverageFile, testsFile string) (*Result, error) {
	res := &Result{Timers: metrics.NewTimers()}

	eg := &errgroup.Group{}
	if coverageFile != "" {
		eg.Go(func() error {
			return res.Timers.Measure(TimerCoverage, func() error {
				cov, err := parser.ParseFile(coverageFile)
				if err != nil {
					return err
				}
				res.Coverage = cov
				return nil
			})
		})
	}
	eg.Go(func() error {
		return res.Timers.Measure(TimerTests, func() error {
			tests, err := reader.ReadFile(testsFile)
			if err != nil {
				return err
			}
			res.Tests = tests
			return nil
		})
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res.Failures = errorcounter.FromReport(res.Tests)
	res.Timers.Log()
	return res, nil
}
