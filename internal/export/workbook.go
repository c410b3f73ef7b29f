package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetCoverage = "Coverage"
	SheetTests    = "Tests"
	SheetFailures = "Failures"

	defaultSheet = "Sheet1"
)

// WriteWorkbook writes the XLSX workbook of the summary.
func WriteWorkbook(w io.Writer, s *Summary) error {
	f, err := NewWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// NewWorkbook builds a workbook with one sheet per result kind: coverage
// by file, every test case and the failure pattern counters.
func NewWorkbook(s *Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetCoverage); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	coverageRows := [][]interface{}{}
	if s.Coverage != nil {
		for _, fc := range s.Coverage.Files {
			coverageRows = append(coverageRows, []interface{}{
				fc.Filename, percent(fc.LineRate), percent(fc.BranchRate), fc.Complexity,
			})
		}
		coverageRows = append(coverageRows, []interface{}{
			"TOTAL", s.Coverage.TotalLineRate, s.Coverage.TotalBranchRate, s.Coverage.ComplexityAvg,
		})
	}
	if err := fillSheet(f, SheetCoverage, header,
		[]interface{}{"File", "Line rate (%)", "Branch rate (%)", "Complexity"}, coverageRows); err != nil {
		return nil, err
	}

	testRows := [][]interface{}{}
	if s.Tests != nil {
		for _, suite := range s.Tests.Suites {
			for _, tc := range suite.Tests {
				testRows = append(testRows, []interface{}{
					suite.Name, tc.Name, tc.Status.String(), tc.Seconds(), tc.Message,
				})
			}
		}
	}
	if err := addSheet(f, SheetTests); err != nil {
		return nil, err
	}
	if err := fillSheet(f, SheetTests, header,
		[]interface{}{"Suite", "Test", "Status", "Time (s)", "Message"}, testRows); err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(s.Failures))
	for k := range s.Failures {
		patterns = append(patterns, k)
	}
	sort.Strings(patterns)
	failureRows := make([][]interface{}, 0, len(patterns))
	for _, k := range patterns {
		failureRows = append(failureRows, []interface{}{k, s.Failures[k]})
	}
	if err := addSheet(f, SheetFailures); err != nil {
		return nil, err
	}
	if err := fillSheet(f, SheetFailures, header, []interface{}{"Pattern", "Count"}, failureRows); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(SheetCoverage)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func addSheet(f *excelize.File, name string) error {
	_, err := f.NewSheet(name)
	return err
}

func fillSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		row := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "B", 40)
}

func percent(rate float64) float64 {
	return rate * 100
}
