package parser

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/xmltree"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// JaCoCo counter types read from each class.
const (
	counterLine       = "LINE"
	counterBranch     = "BRANCH"
	counterComplexity = "COMPLEXITY"
)

// Jacoco reads JaCoCo XML. Only the counters attached directly to a class
// are used; method, sourcefile and package level counters are aggregates.
type Jacoco struct{}

type jacocoCounter struct {
	missed, covered float64
}

func (j *Jacoco) ParseAndNormalize(path string) (*api.CoverageReport, error) {
	root, err := xmltree.Parse(path)
	if err != nil {
		return nil, err
	}
	report, err := j.normalize(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse JaCoCo coverage %s", path)
	}
	return report, nil
}

func (j *Jacoco) normalize(root *xmltree.Element) (*api.CoverageReport, error) {
	var (
		files           []api.FileCoverage
		lines, branches jacocoCounter
	)
	// packages sit directly under the report or inside nested groups.
	for _, pkg := range root.FindAll("package") {
		for _, class := range pkg.ChildrenByTag("class") {
			counters, err := j.counters(class)
			if err != nil {
				return nil, errors.Wrapf(err, "class %q", class.AttrOr("name", ""))
			}
			filename, err := class.RequireAttr("sourcefilename")
			if err != nil {
				return nil, err
			}

			line, branch := counters[counterLine], counters[counterBranch]
			complexity := counters[counterComplexity]
			lines.missed += line.missed
			lines.covered += line.covered
			branches.missed += branch.missed
			branches.covered += branch.covered

			files = append(files, api.NewFileCoverage(
				filename,
				line.rate(),
				branch.rate(),
				complexity.missed+complexity.covered,
			))
		}
	}
	return api.NewCoverageReport(lines.rate(), branches.rate(), files, j.timestamp(root)), nil
}

func (j *Jacoco) counters(class *xmltree.Element) (map[string]jacocoCounter, error) {
	out := map[string]jacocoCounter{}
	for _, el := range class.ChildrenByTag("counter") {
		kind, err := el.RequireAttr("type")
		if err != nil {
			return nil, err
		}
		missed, err := el.RequireInt("missed")
		if err != nil {
			return nil, err
		}
		covered, err := el.RequireInt("covered")
		if err != nil {
			return nil, err
		}
		out[kind] = jacocoCounter{missed: float64(missed), covered: float64(covered)}
	}
	return out, nil
}

// timestamp prefers the start of the first recorded session (epoch millis)
// and falls back to the report name.
func (j *Jacoco) timestamp(root *xmltree.Element) string {
	if session := root.Child("sessioninfo"); session != nil {
		if start, ok := session.Attr("start"); ok {
			if _, err := strconv.ParseInt(start, 10, 64); err == nil {
				return start
			}
		}
	}
	return root.AttrOr("name", "")
}

func (c jacocoCounter) rate() float64 {
	return ratio(c.covered, c.missed+c.covered)
}
