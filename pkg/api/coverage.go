package api

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// CoverageStatus classifies a coverage rate against a threshold.
type CoverageStatus string

const (
	CoverageStatusGood             CoverageStatus = "good"
	CoverageStatusNeedsImprovement CoverageStatus = "needs_improvement"
	CoverageStatusCritical         CoverageStatus = "critical"

	// criticalThresholdRatio marks coverage more than 20% below the threshold
	// as critical.
	criticalThresholdRatio = 0.8

	// complexityPrecision is the number of decimal places kept in the
	// complexity average, matching the precision of the report DTDs.
	complexityPrecision = 4
)

// FileCoverage is the coverage snapshot of a single source file.
type FileCoverage struct {
	Filename string `json:"filename" yaml:"filename"`

	// LineRate and BranchRate are fractions in the range 0..1.
	LineRate   float64 `json:"lineRate" yaml:"lineRate"`
	BranchRate float64 `json:"branchRate" yaml:"branchRate"`

	// Complexity has a dialect-specific meaning: cyclomatic complexity for
	// Clover, missed+covered decision points for JaCoCo and the verbatim
	// attribute for Cobertura.
	Complexity float64 `json:"complexity" yaml:"complexity"`
}

// NewFileCoverage creates the coverage entry for one file.
func NewFileCoverage(filename string, lineRate, branchRate, complexity float64) FileCoverage {
	return FileCoverage{
		Filename:   filename,
		LineRate:   lineRate,
		BranchRate: branchRate,
		Complexity: complexity,
	}
}

// CoverageReport is the dialect-independent coverage result.
type CoverageReport struct {
	// TotalLineRate and TotalBranchRate are whole percentages (floored).
	TotalLineRate   int `json:"totalLineRate" yaml:"totalLineRate"`
	TotalBranchRate int `json:"totalBranchRate" yaml:"totalBranchRate"`

	// Files are kept in document order.
	Files []FileCoverage `json:"files" yaml:"files"`

	// Timestamp is dialect dependent, and may hold the report name when the
	// document carries no timestamp.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	Total         int     `json:"total" yaml:"total"`
	ComplexityAvg float64 `json:"complexityAvg" yaml:"complexityAvg"`
}

// NewCoverageReport builds the normalized report. lineRate and branchRate
// are fractions and are floored to whole percentages. An empty file list
// yields a zero complexity average.
func NewCoverageReport(lineRate, branchRate float64, files []FileCoverage, timestamp string) *CoverageReport {
	cr := &CoverageReport{
		TotalLineRate:   floorPercent(lineRate),
		TotalBranchRate: floorPercent(branchRate),
		Files:           files,
		Timestamp:       timestamp,
		Total:           len(files),
	}
	if cr.Total == 0 {
		return cr
	}

	complexity := stats.Float64Data(lo.Map(files, func(f FileCoverage, _ int) float64 {
		return f.Complexity
	}))
	mean, err := stats.Mean(complexity)
	if err != nil {
		return cr
	}
	if cr.ComplexityAvg, err = stats.Round(mean, complexityPrecision); err != nil {
		cr.ComplexityAvg = mean
	}
	return cr
}

// Status classifies the total line rate against threshold, both expressed
// as whole percentages.
func (cr *CoverageReport) Status(threshold float64) CoverageStatus {
	rate := float64(cr.TotalLineRate)
	if rate >= threshold {
		return CoverageStatusGood
	}
	if rate < threshold*criticalThresholdRatio {
		return CoverageStatusCritical
	}
	return CoverageStatusNeedsImprovement
}

// floorPercent converts a fraction to a floored whole percentage.
func floorPercent(rate float64) int {
	return int(math.Floor(rate * 100))
}
