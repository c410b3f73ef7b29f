package reader

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/xmltree"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// JUnit reads JUnit-style XML as written by pytest, surefire and most CI
// tooling. Both a <testsuites> wrapper and a bare <testsuite> root are
// accepted.
type JUnit struct{}

func (j *JUnit) Read(path string) (*api.TestReport, error) {
	root, err := xmltree.Parse(path)
	if err != nil {
		return nil, err
	}

	elements := root.ChildrenByTag("testsuite")
	if len(elements) == 0 {
		elements = []*xmltree.Element{root}
	}

	suites := make([]api.TestSuite, 0, len(elements))
	for _, el := range elements {
		suite, err := j.suite(el)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read JUnit report %s", path)
		}
		suites = append(suites, suite)
	}
	return api.NewTestReport(suites), nil
}

func (j *JUnit) suite(el *xmltree.Element) (api.TestSuite, error) {
	name := el.AttrOr("name", "")
	elapsed, err := el.FloatOr("time", 0)
	if err != nil {
		return api.TestSuite{}, errors.Wrapf(err, "testsuite %q", name)
	}

	var cases []api.TestCase
	for _, tc := range el.FindAll("testcase") {
		testCase, err := j.testCase(tc)
		if err != nil {
			return api.TestSuite{}, errors.Wrapf(err, "testsuite %q", name)
		}
		cases = append(cases, testCase)
	}
	return api.NewTestSuite(name, cases, elapsed), nil
}

func (j *JUnit) testCase(el *xmltree.Element) (api.TestCase, error) {
	name, err := el.RequireAttr("name")
	if err != nil {
		return api.TestCase{}, err
	}
	rawTime, err := el.RequireAttr("time")
	if err != nil {
		return api.TestCase{}, errors.Wrapf(err, "testcase %q", name)
	}

	status := api.TestStatusPassed
	var message, fullMessage string
	if child := el.FirstChild(); child != nil {
		status = api.ParseTestStatus(child.Tag())
		message = child.AttrOr("message", "")
		fullMessage = strings.TrimSpace(child.Text)
	}

	testCase, err := api.NewTestCase(name, status, rawTime, message, fullMessage)
	if err != nil {
		return api.TestCase{}, errors.Wrapf(err, "testcase %q", name)
	}
	return testCase, nil
}
