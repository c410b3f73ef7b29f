package identifier

import "github.com/webhook-reporter/webhook-reporter/pkg/api"

// SuiteFormat is a test report dialect.
type SuiteFormat string

const (
	SuiteFormatJUnit  SuiteFormat = "JUnit"
	SuiteFormatTestNG SuiteFormat = "TestNG"
	SuiteFormatNUnit  SuiteFormat = "NUnit"
)

// SuiteRules is the ordered rule set used by IdentifySuite.
var SuiteRules = sortRules([]Rule[SuiteFormat]{
	{
		Format:     SuiteFormatJUnit,
		Precedence: 1,
		Match: func(root *Root) bool {
			// a single <testsuite> root is valid JUnit as well.
			return (root.Tag == "testsuites" && root.HasChild("testsuite")) || root.Tag == "testsuite"
		},
	},
	{
		Format:     SuiteFormatTestNG,
		Precedence: 2,
		Match: func(root *Root) bool {
			return root.Tag == "testng-results"
		},
	},
	{
		Format:     SuiteFormatNUnit,
		Precedence: 3,
		Match: func(root *Root) bool {
			return root.Tag == "test-results" && root.HasAttrs("total")
		},
	},
})

// IdentifySuite loads the file and classifies its test report dialect.
func IdentifySuite(path string) (SuiteFormat, error) {
	root, err := LoadRoot(path)
	if err != nil {
		return "", err
	}
	format, ok := ClassifySuite(root)
	if !ok {
		return "", api.NewUnsupportedTestReportTypeError(path, "", api.ReasonUnknownFormat)
	}
	return format, nil
}

// ClassifySuite applies SuiteRules to an already loaded root.
func ClassifySuite(root *Root) (SuiteFormat, bool) {
	return matchRules(SuiteRules, root)
}
