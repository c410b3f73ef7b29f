package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"k8s.io/utils/ptr"
)

// DefaultSlowestTests is the number of tests ranked by Summary.
const DefaultSlowestTests = 5

// TestCase is a single test result.
type TestCase struct {
	Name   string     `json:"name" yaml:"name"`
	Status TestStatus `json:"status" yaml:"status"`

	// Time is the elapsed time in seconds. It is nil when the report carried
	// a non-numeric marker such as "N/A".
	Time *float64 `json:"time,omitempty" yaml:"time,omitempty"`

	// Message is the short failure reason, FullMessage the raw failure output.
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	FullMessage string `json:"fullMessage,omitempty" yaml:"fullMessage,omitempty"`
}

// NewTestCase creates a test case, parsing rawTime as seconds. Values without
// any digit leave the time unset; values with digits that still fail to parse
// are rejected.
func NewTestCase(name string, status TestStatus, rawTime, message, fullMessage string) (TestCase, error) {
	tc := TestCase{
		Name:        name,
		Status:      status,
		Message:     message,
		FullMessage: fullMessage,
	}
	raw := strings.TrimSpace(rawTime)
	if !strings.ContainsFunc(raw, unicode.IsDigit) {
		return tc, nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return tc, errors.Wrapf(err, "invalid time %q for test case %q", rawTime, name)
	}
	tc.Time = ptr.To(seconds)
	return tc, nil
}

// Seconds returns the elapsed time, or zero when it is unset.
func (tc TestCase) Seconds() float64 {
	return ptr.Deref(tc.Time, 0)
}

// TestSuite groups test cases and their per-status counters.
type TestSuite struct {
	Name  string     `json:"name" yaml:"name"`
	Tests []TestCase `json:"tests" yaml:"tests"`
	Time  float64    `json:"time" yaml:"time"`

	Passed  int `json:"passed" yaml:"passed"`
	Failed  int `json:"failed" yaml:"failed"`
	Errored int `json:"errored" yaml:"errored"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// NewTestSuite creates a suite deriving the counters from its test cases.
func NewTestSuite(name string, tests []TestCase, time float64) TestSuite {
	count := func(status TestStatus) int {
		return lo.CountBy(tests, func(tc TestCase) bool { return tc.Status == status })
	}
	return TestSuite{
		Name:    name,
		Tests:   tests,
		Time:    time,
		Passed:  count(TestStatusPassed),
		Failed:  count(TestStatusFailed),
		Errored: count(TestStatusError),
		Skipped: count(TestStatusSkipped),
	}
}

// TestReport is the dialect-independent test run result. All fields are
// derived once by NewTestReport and must be treated as read-only.
type TestReport struct {
	Suites []TestSuite `json:"suites" yaml:"suites"`

	TotalTime    float64 `json:"totalTime" yaml:"totalTime"`
	TotalTests   int     `json:"totalTests" yaml:"totalTests"`
	TotalPassed  int     `json:"totalPassed" yaml:"totalPassed"`
	TotalFailed  int     `json:"totalFailed" yaml:"totalFailed"`
	TotalError   int     `json:"totalError" yaml:"totalError"`
	TotalSkipped int     `json:"totalSkipped" yaml:"totalSkipped"`

	// SuccessRate is the passed/total fraction, zero for an empty report.
	SuccessRate float64 `json:"successRate" yaml:"successRate"`

	// FailureSummary maps suite names to "name: message" entries of their
	// failed cases. Suites without failures are omitted.
	FailureSummary map[string][]string `json:"failureSummary" yaml:"failureSummary"`
}

// NewTestReport aggregates the suites into a report.
func NewTestReport(suites []TestSuite) *TestReport {
	tr := &TestReport{
		Suites:         suites,
		TotalTime:      lo.SumBy(suites, func(s TestSuite) float64 { return s.Time }),
		TotalTests:     lo.SumBy(suites, func(s TestSuite) int { return len(s.Tests) }),
		TotalPassed:    lo.SumBy(suites, func(s TestSuite) int { return s.Passed }),
		TotalFailed:    lo.SumBy(suites, func(s TestSuite) int { return s.Failed }),
		TotalError:     lo.SumBy(suites, func(s TestSuite) int { return s.Errored }),
		TotalSkipped:   lo.SumBy(suites, func(s TestSuite) int { return s.Skipped }),
		FailureSummary: make(map[string][]string),
	}
	if tr.TotalTests > 0 {
		tr.SuccessRate = float64(tr.TotalPassed) / float64(tr.TotalTests)
	}

	for _, suite := range suites {
		for _, tc := range suite.Tests {
			if tc.Status != TestStatusFailed {
				continue
			}
			tr.FailureSummary[suite.Name] = append(tr.FailureSummary[suite.Name],
				fmt.Sprintf("%s: %s", tc.Name, tc.Message))
		}
	}
	return tr
}

// AllTests returns every test case of the report in suite order.
func (tr *TestReport) AllTests() []TestCase {
	return lo.FlatMap(tr.Suites, func(s TestSuite, _ int) []TestCase { return s.Tests })
}

// SlowestTests returns the n slowest test cases across all suites. Ties keep
// their original order.
func (tr *TestReport) SlowestTests(n int) []TestCase {
	tests := tr.AllTests()
	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].Seconds() > tests[j].Seconds()
	})
	if n < 0 {
		n = 0
	}
	if n < len(tests) {
		tests = tests[:n]
	}
	return tests
}

// TestsByStatus returns the test cases with the given status.
func (tr *TestReport) TestsByStatus(status TestStatus) []TestCase {
	return lo.Filter(tr.AllTests(), func(tc TestCase, _ int) bool { return tc.Status == status })
}

// TestSummary is the presentation-ready digest of a report.
type TestSummary struct {
	TotalTests     int                 `json:"totalTests" yaml:"totalTests"`
	TotalPassed    int                 `json:"totalPassed" yaml:"totalPassed"`
	TotalFailed    int                 `json:"totalFailed" yaml:"totalFailed"`
	TotalSkipped   int                 `json:"totalSkipped" yaml:"totalSkipped"`
	SuccessRate    string              `json:"successRate" yaml:"successRate"`
	TotalTime      string              `json:"totalTime" yaml:"totalTime"`
	SlowestTests   []TestCase          `json:"slowestTests" yaml:"slowestTests"`
	FailureSummary map[string][]string `json:"failureSummary" yaml:"failureSummary"`
}

// Summary returns the digest consumed by formatters.
func (tr *TestReport) Summary() TestSummary {
	return TestSummary{
		TotalTests:     tr.TotalTests,
		TotalPassed:    tr.TotalPassed,
		TotalFailed:    tr.TotalFailed,
		TotalSkipped:   tr.TotalSkipped,
		SuccessRate:    fmt.Sprintf("%.2f%%", tr.SuccessRate*100),
		TotalTime:      HumanizeSeconds(tr.TotalTime),
		SlowestTests:   tr.SlowestTests(DefaultSlowestTests),
		FailureSummary: tr.FailureSummary,
	}
}
