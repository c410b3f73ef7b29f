package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const pageTitle = "Test and Coverage Report"

// WriteChart renders the HTML page with the coverage and test charts.
func WriteChart(w io.Writer, s *Summary) error {
	return NewPage(s).Render(w)
}

// NewPage creates the chart page. Charts without data are left out.
func NewPage(s *Summary) *components.Page {
	page := components.NewPage()
	page.PageTitle = pageTitle
	if s.Coverage != nil && len(s.Coverage.Files) > 0 {
		page.AddCharts(coverageChart(s.Coverage, s.Threshold))
	}
	if s.Tests != nil && s.Tests.TotalTests > 0 {
		page.AddCharts(testsChart(s.Tests))
	}
	return page
}

func coverageChart(cov *api.CoverageReport, threshold float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Coverage by file",
			Subtitle: "line and branch rate (%), threshold " + formatFloat(threshold) + "%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)

	files := make([]string, 0, len(cov.Files))
	lines := make([]opts.BarData, 0, len(cov.Files))
	branches := make([]opts.BarData, 0, len(cov.Files))
	for _, fc := range cov.Files {
		files = append(files, fc.Filename)
		lines = append(lines, opts.BarData{Name: fc.Filename, Value: percent(fc.LineRate)})
		branches = append(branches, opts.BarData{Name: fc.Filename, Value: percent(fc.BranchRate)})
	}
	bar.SetXAxis(files).
		AddSeries("Line rate", lines).
		AddSeries("Branch rate", branches)
	return bar
}

func testsChart(tr *api.TestReport) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Test results"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	var items []opts.PieData
	for _, s := range []struct {
		status api.TestStatus
		count  int
	}{
		{api.TestStatusPassed, tr.TotalPassed},
		{api.TestStatusFailed, tr.TotalFailed},
		{api.TestStatusError, tr.TotalError},
		{api.TestStatusSkipped, tr.TotalSkipped},
	} {
		if s.count > 0 {
			items = append(items, opts.PieData{Name: s.status.String(), Value: s.count})
		}
	}
	pie.AddSeries("tests", items)
	return pie
}
