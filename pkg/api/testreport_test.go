package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func newCase(t *testing.T, name string, status TestStatus, time, message string) TestCase {
	t.Helper()
	tc, err := NewTestCase(name, status, time, message, "")
	require.NoError(t, err)
	return tc
}

func TestNewTestCase(t *testing.T) {
	cases := []struct {
		name     string
		rawTime  string
		wantTime *float64
		wantErr  bool
	}{
		{name: "numeric", rawTime: "0.123", wantTime: ptr.To(0.123)},
		{name: "integer", rawTime: "3", wantTime: ptr.To(3.0)},
		{name: "padded", rawTime: " 1.5 ", wantTime: ptr.To(1.5)},
		{name: "not available", rawTime: "N/A", wantTime: nil},
		{name: "alphabetic", rawTime: "unknown", wantTime: nil},
		{name: "empty", rawTime: "", wantTime: nil},
		{name: "garbage with digits", rawTime: "1.2.3", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewTestCase("case", TestStatusPassed, tc.rawTime, "", "")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantTime, got.Time)
		})
	}
}

func TestTestCaseSeconds(t *testing.T) {
	assert.Equal(t, 0.0, TestCase{}.Seconds())
	assert.Equal(t, 2.5, TestCase{Time: ptr.To(2.5)}.Seconds())
}

func TestNewTestSuiteCounters(t *testing.T) {
	suite := NewTestSuite("suite", []TestCase{
		newCase(t, "a", TestStatusPassed, "1", ""),
		newCase(t, "b", TestStatusFailed, "1", "boom"),
		newCase(t, "c", TestStatusError, "1", ""),
		newCase(t, "d", TestStatusSkipped, "1", ""),
		newCase(t, "e", TestStatusSkipped, "1", ""),
		newCase(t, "f", TestStatusUnknown, "1", ""),
	}, 6)

	assert.Equal(t, 1, suite.Passed)
	assert.Equal(t, 1, suite.Failed)
	assert.Equal(t, 1, suite.Errored)
	assert.Equal(t, 2, suite.Skipped)
	assert.Equal(t, 6.0, suite.Time)
}

func TestNewTestReport(t *testing.T) {
	suites := []TestSuite{
		NewTestSuite("pytest", []TestCase{
			newCase(t, "test_adds", TestStatusPassed, "0.1", ""),
			newCase(t, "test_adds2", TestStatusPassed, "0.2", ""),
			newCase(t, "test_subs", TestStatusPassed, "0.3", ""),
		}, 30),
		NewTestSuite("pytest2", []TestCase{
			newCase(t, "test_mul", TestStatusPassed, "0.1", ""),
			newCase(t, "test_failing_test", TestStatusFailed, "0.2", "assert 1 == 2"),
			newCase(t, "test_div", TestStatusPassed, "0.3", ""),
		}, 60),
	}
	tr := NewTestReport(suites)

	assert.Equal(t, 6, tr.TotalTests)
	assert.Equal(t, 5, tr.TotalPassed)
	assert.Equal(t, 1, tr.TotalFailed)
	assert.Equal(t, 0, tr.TotalError)
	assert.Equal(t, 0, tr.TotalSkipped)
	assert.Equal(t, 90.0, tr.TotalTime)
	assert.InDelta(t, 5.0/6.0, tr.SuccessRate, 1e-12)
	assert.Equal(t, map[string][]string{
		"pytest2": {"test_failing_test: assert 1 == 2"},
	}, tr.FailureSummary)

	failed := tr.TestsByStatus(TestStatusFailed)
	assert.Len(t, failed, 1)
	assert.Equal(t, "test_failing_test", failed[0].Name)
	assert.Len(t, tr.TestsByStatus(TestStatusPassed), 5)
	assert.Empty(t, tr.TestsByStatus(TestStatusSkipped))
}

func TestNewTestReportEmpty(t *testing.T) {
	tr := NewTestReport(nil)
	assert.Equal(t, 0, tr.TotalTests)
	assert.Equal(t, 0.0, tr.SuccessRate)
	assert.Empty(t, tr.FailureSummary)
	assert.Empty(t, tr.SlowestTests(DefaultSlowestTests))

	summary := tr.Summary()
	assert.Equal(t, "0s", summary.TotalTime)
	assert.Equal(t, "0.00%", summary.SuccessRate)
}

func TestSlowestTests(t *testing.T) {
	suites := []TestSuite{
		NewTestSuite("one", []TestCase{
			newCase(t, "t1", TestStatusPassed, "1", ""),
			newCase(t, "t2", TestStatusPassed, "5", ""),
			newCase(t, "t3", TestStatusPassed, "3", ""),
			newCase(t, "t4", TestStatusPassed, "N/A", ""),
		}, 0),
		NewTestSuite("two", []TestCase{
			newCase(t, "t5", TestStatusPassed, "3", ""),
			newCase(t, "t6", TestStatusPassed, "7", ""),
			newCase(t, "t7", TestStatusPassed, "2", ""),
		}, 0),
	}
	tr := NewTestReport(suites)

	slowest := tr.SlowestTests(5)
	names := []string{}
	for _, tc := range slowest {
		names = append(names, tc.Name)
	}
	// t3 and t5 tie and keep their document order.
	assert.Equal(t, []string{"t6", "t2", "t3", "t5", "t7"}, names)

	assert.Len(t, tr.SlowestTests(100), 7)
	assert.Empty(t, tr.SlowestTests(0))

	// ranking must not reorder the suites.
	assert.Equal(t, "t1", tr.Suites[0].Tests[0].Name)
}

func TestTestReportSummary(t *testing.T) {
	tr := NewTestReport([]TestSuite{
		NewTestSuite("s", []TestCase{
			newCase(t, "ok", TestStatusPassed, "10", ""),
			newCase(t, "ko", TestStatusFailed, "20", "nope"),
			newCase(t, "skip", TestStatusSkipped, "0", ""),
		}, 90),
	})
	summary := tr.Summary()

	assert.Equal(t, 3, summary.TotalTests)
	assert.Equal(t, 1, summary.TotalPassed)
	assert.Equal(t, 1, summary.TotalFailed)
	assert.Equal(t, 1, summary.TotalSkipped)
	assert.Equal(t, "33.33%", summary.SuccessRate)
	assert.Equal(t, "1m 30s", summary.TotalTime)
	assert.Equal(t, "ko", summary.SlowestTests[0].Name)
	assert.Equal(t, []string{"ko: nope"}, summary.FailureSummary["s"])
}
