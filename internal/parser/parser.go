// Package parser turns coverage XML documents into api.CoverageReport
// values, one Parser per dialect.
package parser

import (
	"github.com/webhook-reporter/webhook-reporter/internal/identifier"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Parser reads one coverage dialect and normalizes it.
type Parser interface {
	ParseAndNormalize(path string) (*api.CoverageReport, error)
}

var registry = map[identifier.CoverageFormat]Parser{
	identifier.CoverageFormatCobertura: &Cobertura{},
	identifier.CoverageFormatClover:    &Clover{},
	identifier.CoverageFormatJacoco:    &Jacoco{},
}

// NewParser identifies the coverage dialect of path and returns its parser.
func NewParser(path string) (Parser, error) {
	format, err := identifier.IdentifyCoverage(path)
	if err != nil {
		return nil, err
	}
	p, ok := registry[format]
	if !ok {
		return nil, api.NewUnsupportedCoverageTypeError(path, string(format), api.ReasonNoImplementation)
	}
	return p, nil
}

// ParseFile is a shortcut for NewParser followed by ParseAndNormalize.
func ParseFile(path string) (*api.CoverageReport, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	return p.ParseAndNormalize(path)
}

func ratio(covered, total float64) float64 {
	if total == 0 {
		return 0
	}
	return covered / total
}
