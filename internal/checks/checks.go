// Package checks implements the quality gate of a run: acceptance checks
// evaluated over the coverage and test reports, each reporting pass, warn,
// fail or skip.
package checks

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const (
	ResultPass ResultName = "pass"
	ResultFail ResultName = "fail"
	ResultWarn ResultName = "warn"
	ResultSkip ResultName = "skip"

	CheckIDLineCoverage   = "WR-001"
	CheckIDBranchCoverage = "WR-002"
	CheckIDNotEmpty       = "WR-003"
	CheckIDNoFailures     = "WR-004"
	CheckIDNoErrors       = "WR-005"
	CheckIDSkippedRatio   = "WR-006"
	CheckIDKnownStatus    = "WR-007"

	// maxSkippedPercent is the share of skipped tests above which
	// CheckIDSkippedRatio warns.
	maxSkippedPercent = 10.0
)

type ResultName string

type Result struct {
	Name    ResultName `json:"result" yaml:"result"`
	Message string     `json:"message,omitempty" yaml:"message,omitempty"`
	Target  string     `json:"want" yaml:"want"`
	Actual  string     `json:"got" yaml:"got"`
}

func (r Result) String() string {
	return string(r.Name)
}

type Check struct {
	// ID is the unique identifier of the check, in the form WR-NNN.
	ID string `json:"id" yaml:"id"`

	// Name must be short and describe the acceptance criteria.
	Name string `json:"name" yaml:"name"`

	Result Result `json:"result" yaml:"result"`

	Test func() Result `json:"-" yaml:"-"`
}

// Summary aggregates the checks of a run.
type Summary struct {
	Checks []*Check `json:"checks" yaml:"checks"`
}

// Input is the data checked. Either report may be nil, in which case the
// checks depending on it are skipped.
type Input struct {
	Coverage  *api.CoverageReport
	Tests     *api.TestReport
	Threshold float64
}

func skip(target string) Result {
	return Result{Name: ResultSkip, Target: target, Actual: "N/A", Message: "report not provided"}
}

// NewSummary creates the check set for in. Checks are evaluated by Run.
func NewSummary(in Input) *Summary {
	sum := &Summary{}
	threshold := fmt.Sprintf(">=%v%%", in.Threshold)

	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDLineCoverage,
		Name: "Line coverage must meet the threshold",
		Test: func() Result {
			if in.Coverage == nil {
				return skip(threshold)
			}
			res := Result{Target: threshold, Actual: fmt.Sprintf("%d%%", in.Coverage.TotalLineRate)}
			switch in.Coverage.Status(in.Threshold) {
			case api.CoverageStatusGood:
				res.Name = ResultPass
			case api.CoverageStatusNeedsImprovement:
				res.Name = ResultWarn
				res.Message = "coverage is below the threshold"
			default:
				res.Name = ResultFail
				res.Message = "coverage is more than 20% below the threshold"
			}
			return res
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDBranchCoverage,
		Name: "Branch coverage should meet the threshold",
		Test: func() Result {
			if in.Coverage == nil {
				return skip(threshold)
			}
			res := Result{Name: ResultPass, Target: threshold, Actual: fmt.Sprintf("%d%%", in.Coverage.TotalBranchRate)}
			if float64(in.Coverage.TotalBranchRate) < in.Threshold {
				res.Name = ResultWarn
			}
			return res
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDNotEmpty,
		Name: "Test results must contain at least one test",
		Test: func() Result {
			if in.Tests == nil {
				return skip(">0")
			}
			res := Result{Name: ResultFail, Target: ">0", Actual: fmt.Sprintf("%d", in.Tests.TotalTests)}
			if in.Tests.TotalTests > 0 {
				res.Name = ResultPass
			}
			return res
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDNoFailures,
		Name: "Test suites must have no failed tests",
		Test: func() Result {
			if in.Tests == nil {
				return skip("0")
			}
			return countResult(in.Tests.TotalFailed, ResultFail)
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDNoErrors,
		Name: "Test suites must have no errored tests",
		Test: func() Result {
			if in.Tests == nil {
				return skip("0")
			}
			return countResult(in.Tests.TotalError, ResultFail)
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDSkippedRatio,
		Name: fmt.Sprintf("Skipped tests should be at most %v%%", maxSkippedPercent),
		Test: func() Result {
			target := fmt.Sprintf("<=%v%%", maxSkippedPercent)
			if in.Tests == nil {
				return skip(target)
			}
			res := Result{Name: ResultPass, Target: target, Actual: "0%"}
			if in.Tests.TotalTests == 0 {
				return res
			}
			perc := float64(in.Tests.TotalSkipped) / float64(in.Tests.TotalTests) * 100
			res.Actual = fmt.Sprintf("%.2f%%(%d)", perc, in.Tests.TotalSkipped)
			if perc > maxSkippedPercent {
				res.Name = ResultWarn
			}
			return res
		},
	})
	sum.Checks = append(sum.Checks, &Check{
		ID:   CheckIDKnownStatus,
		Name: "Every test case should report a known status",
		Test: func() Result {
			if in.Tests == nil {
				return skip("0")
			}
			unknown := in.Tests.TestsByStatus(api.TestStatusUnknown)
			res := countResult(len(unknown), ResultWarn)
			if len(unknown) > 0 {
				res.Message = fmt.Sprintf("first: %s", unknown[0].Name)
			}
			return res
		},
	})
	return sum
}

// countResult passes when count is zero and reports onFound otherwise.
func countResult(count int, onFound ResultName) Result {
	res := Result{Name: ResultPass, Target: "0", Actual: fmt.Sprintf("%d", count)}
	if count > 0 {
		res.Name = onFound
	}
	return res
}

// Run evaluates every check.
func (s *Summary) Run() *Summary {
	for _, check := range s.Checks {
		check.Result = check.Test()
	}
	return s
}

// ByResult returns the checks with the given result, in check order.
func (s *Summary) ByResult(name ResultName) []*Check {
	return lo.Filter(s.Checks, func(c *Check, _ int) bool { return c.Result.Name == name })
}

// Failed reports whether any check failed.
func (s *Summary) Failed() bool {
	return len(s.ByResult(ResultFail)) > 0
}
