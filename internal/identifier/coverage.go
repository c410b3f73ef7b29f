package identifier

import "github.com/webhook-reporter/webhook-reporter/pkg/api"

// CoverageFormat is a coverage report dialect.
type CoverageFormat string

const (
	CoverageFormatClover    CoverageFormat = "Clover"
	CoverageFormatCobertura CoverageFormat = "Cobertura"
	CoverageFormatJacoco    CoverageFormat = "JaCoCo"
)

// Clover and Cobertura share the <coverage> root tag. Clover must be tried
// first: its documents may also carry line-rate/branch-rate and would
// otherwise be taken for Cobertura.
const (
	precedenceClover = iota + 1
	precedenceCobertura
	precedenceJacoco
)

// CoverageRules is the ordered rule set used by IdentifyCoverage. New
// dialects are supported by adding a rule.
var CoverageRules = sortRules([]Rule[CoverageFormat]{
	{
		Format:     CoverageFormatCobertura,
		Precedence: precedenceCobertura,
		Match: func(root *Root) bool {
			return root.Tag == "coverage" && root.HasAttrs("line-rate", "branch-rate")
		},
	},
	{
		Format:     CoverageFormatClover,
		Precedence: precedenceClover,
		Match: func(root *Root) bool {
			return root.Tag == "coverage" && root.HasAttrs("clover")
		},
	},
	{
		Format:     CoverageFormatJacoco,
		Precedence: precedenceJacoco,
		Match: func(root *Root) bool {
			return root.Tag == "report" && root.HasAttrs("name")
		},
	},
})

// IdentifyCoverage loads the file and classifies its coverage dialect.
func IdentifyCoverage(path string) (CoverageFormat, error) {
	root, err := LoadRoot(path)
	if err != nil {
		return "", err
	}
	format, ok := ClassifyCoverage(root)
	if !ok {
		return "", api.NewUnsupportedCoverageTypeError(path, "", api.ReasonUnknownFormat)
	}
	return format, nil
}

// ClassifyCoverage applies CoverageRules to an already loaded root.
func ClassifyCoverage(root *Root) (CoverageFormat, bool) {
	return matchRules(CoverageRules, root)
}
