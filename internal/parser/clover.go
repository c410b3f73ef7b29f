package parser

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/xmltree"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const totalsPrecision = 4

// ErrZeroStatements is returned for a Clover file entry declaring no
// statements, whose line rate is undefined.
var ErrZeroStatements = errors.New("file declares zero statements")

// Clover reads Clover XML. Rates are derived from the per-file metrics
// counters instead of being read from the document.
type Clover struct{}

type cloverCounts struct {
	statements, coveredStatements     float64
	conditionals, coveredConditionals float64
}

func (c *Clover) ParseAndNormalize(path string) (*api.CoverageReport, error) {
	root, err := xmltree.Parse(path)
	if err != nil {
		return nil, err
	}
	report, err := c.normalize(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse Clover coverage %s", path)
	}
	return report, nil
}

func (c *Clover) normalize(root *xmltree.Element) (*api.CoverageReport, error) {
	var (
		files  []api.FileCoverage
		totals cloverCounts
	)
	for _, el := range root.FindAll("file") {
		file, counts, err := c.file(el)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
		totals.statements += counts.statements
		totals.coveredStatements += counts.coveredStatements
		totals.conditionals += counts.conditionals
		totals.coveredConditionals += counts.coveredConditionals
	}

	lineRate, err := stats.Round(ratio(totals.coveredStatements, totals.statements), totalsPrecision)
	if err != nil {
		return nil, err
	}
	branchRate, err := stats.Round(ratio(totals.coveredConditionals, totals.conditionals), totalsPrecision)
	if err != nil {
		return nil, err
	}
	return api.NewCoverageReport(lineRate, branchRate, files, c.timestamp(root)), nil
}

func (c *Clover) timestamp(root *xmltree.Element) string {
	if generated, ok := root.Attr("generated"); ok {
		return generated
	}
	if project := root.Child("project"); project != nil {
		return project.AttrOr("name", "")
	}
	return ""
}

func (c *Clover) file(el *xmltree.Element) (api.FileCoverage, cloverCounts, error) {
	var counts cloverCounts
	name, err := el.RequireAttr("name")
	if err != nil {
		return api.FileCoverage{}, counts, err
	}
	metrics := el.Child("metrics")
	if metrics == nil {
		return api.FileCoverage{}, counts, errors.Errorf("file %q has no <metrics> element", name)
	}

	fields := []struct {
		attr string
		dst  *float64
	}{
		{"statements", &counts.statements},
		{"coveredstatements", &counts.coveredStatements},
		{"conditionals", &counts.conditionals},
		{"coveredconditionals", &counts.coveredConditionals},
	}
	for _, f := range fields {
		v, err := metrics.RequireInt(f.attr)
		if err != nil {
			return api.FileCoverage{}, counts, errors.Wrapf(err, "file %q", name)
		}
		*f.dst = float64(v)
	}
	if counts.statements == 0 {
		return api.FileCoverage{}, counts, errors.Wrapf(ErrZeroStatements, "file %q", name)
	}

	conditions := 0
	for _, line := range el.FindAll("line") {
		if line.AttrOr("type", "") == "cond" {
			conditions++
		}
	}

	return api.NewFileCoverage(
		name,
		counts.coveredStatements/counts.statements,
		ratio(counts.coveredConditionals, counts.conditionals),
		float64(conditions+1),
	), counts, nil
}
