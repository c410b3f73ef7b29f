package parser

import (
	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/xmltree"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Cobertura reads Cobertura XML, the "standard" coverage layout where the
// root carries line-rate and branch-rate totals.
type Cobertura struct{}

func (c *Cobertura) ParseAndNormalize(path string) (*api.CoverageReport, error) {
	root, err := xmltree.Parse(path)
	if err != nil {
		return nil, err
	}
	report, err := c.normalize(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse Cobertura coverage %s", path)
	}
	return report, nil
}

func (c *Cobertura) normalize(root *xmltree.Element) (*api.CoverageReport, error) {
	timestamp, err := root.RequireAttr("timestamp")
	if err != nil {
		return nil, err
	}
	lineRate, err := root.RequireFloat("line-rate")
	if err != nil {
		return nil, err
	}
	branchRate, err := root.RequireFloat("branch-rate")
	if err != nil {
		return nil, err
	}

	var files []api.FileCoverage
	for _, pkg := range root.FindAll("package") {
		for _, class := range pkg.FindAll("class") {
			file, err := c.class(class)
			if err != nil {
				return nil, errors.Wrapf(err, "package %q", pkg.AttrOr("name", ""))
			}
			files = append(files, file)
		}
	}
	return api.NewCoverageReport(lineRate, branchRate, files, timestamp), nil
}

func (c *Cobertura) class(el *xmltree.Element) (api.FileCoverage, error) {
	filename, err := el.RequireAttr("filename")
	if err != nil {
		return api.FileCoverage{}, err
	}
	lineRate, err := el.RequireFloat("line-rate")
	if err != nil {
		return api.FileCoverage{}, err
	}
	branchRate, err := el.RequireFloat("branch-rate")
	if err != nil {
		return api.FileCoverage{}, err
	}
	complexity, err := el.RequireFloat("complexity")
	if err != nil {
		return api.FileCoverage{}, err
	}
	return api.NewFileCoverage(filename, lineRate, branchRate, complexity), nil
}
