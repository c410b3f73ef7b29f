package reader

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/fileio"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const suiteTimePrecision = 2

// Jest reads the JSON written by `jest --json`.
type Jest struct{}

type jestResults struct {
	TestResults []jestSuite `json:"testResults"`
}

type jestSuite struct {
	Name             string          `json:"name"`
	StartTime        float64         `json:"startTime"`
	EndTime          float64         `json:"endTime"`
	AssertionResults []jestAssertion `json:"assertionResults"`
}

type jestAssertion struct {
	Title           string   `json:"title"`
	Status          string   `json:"status"`
	Duration        *float64 `json:"duration"`
	FailureMessages []string `json:"failureMessages"`
}

func (j *Jest) Read(path string) (*api.TestReport, error) {
	data, err := fileio.ReadAll(path)
	if err != nil {
		return nil, err
	}

	var results jestResults
	if err := json.Unmarshal(data, &results); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &api.MalformedFileError{Path: path, Err: err}
		}
		return nil, errors.Wrapf(err, "failed to read Jest report %s", path)
	}
	if results.TestResults == nil {
		return nil, errors.Errorf("failed to read Jest report %s: no testResults found", path)
	}

	suites := make([]api.TestSuite, 0, len(results.TestResults))
	for _, s := range results.TestResults {
		suite, err := j.suite(s)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read Jest report %s", path)
		}
		suites = append(suites, suite)
	}
	return api.NewTestReport(suites), nil
}

func (j *Jest) suite(s jestSuite) (api.TestSuite, error) {
	elapsed, err := stats.Round((s.EndTime-s.StartTime)/1000, suiteTimePrecision)
	if err != nil {
		return api.TestSuite{}, err
	}

	cases := make([]api.TestCase, 0, len(s.AssertionResults))
	for _, a := range s.AssertionResults {
		tc, err := j.testCase(a)
		if err != nil {
			return api.TestSuite{}, errors.Wrapf(err, "suite %q", s.Name)
		}
		cases = append(cases, tc)
	}
	return api.NewTestSuite(s.Name, cases, elapsed), nil
}

func (j *Jest) testCase(a jestAssertion) (api.TestCase, error) {
	status := api.ParseTestStatus(a.Status)

	var duration float64
	if a.Duration != nil {
		duration = *a.Duration
	}

	// both stay empty strings, never unset, when the test did not fail.
	var message, fullMessage string
	if len(a.FailureMessages) > 0 || status == api.TestStatusFailed {
		fullMessage = StripANSI(strings.Join(a.FailureMessages, "\n"))
		message = ShortMessage(fullMessage)
	}

	return api.NewTestCase(a.Title, status, strconv.FormatFloat(duration/1000, 'f', -1, 64), message, fullMessage)
}
