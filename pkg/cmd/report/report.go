package report

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/webhook-reporter/webhook-reporter/internal/checks"
	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/internal/errorcounter"
	"github.com/webhook-reporter/webhook-reporter/internal/export"
	"github.com/webhook-reporter/webhook-reporter/internal/pipeline"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

type Input struct {
	coverageFile  string
	testsFile     string
	threshold     float64
	output        string
	saveTo        string
	serverAddress string
	serverSkip    bool
	saveOnly      bool
	verbose       bool
	failOnChecks  bool
}

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Create a report from coverage and test results.",
		Example: "webhook-reporter report --coverage coverage.xml --tests junit.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFlags(&data); err != nil {
				return err
			}
			if err := processResult(cmd.OutOrStdout(), &data); err != nil {
				return errors.Wrap(err, "could not process results")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(
		&data.coverageFile, "coverage", "c", "",
		"Coverage report file (Cobertura, Clover or JaCoCo). Example: -c coverage.xml",
	)
	cmd.Flags().StringVarP(
		&data.testsFile, "tests", "t", "",
		"Test results file (JUnit XML or Jest JSON). Example: -t junit.xml",
	)
	cmd.Flags().Float64Var(
		&data.threshold, "threshold", config.DefaultCoverageThreshold,
		"Coverage threshold in percent used to classify the coverage status.",
	)
	cmd.Flags().StringVarP(
		&data.output, "output", "o", OutputText,
		"Output format, one of: text, json, yaml.",
	)
	cmd.Flags().StringVarP(
		&data.saveTo, "save-to", "s", "",
		"Save the summary, workbook and charts to disk. Example: -s ./results",
	)
	cmd.Flags().StringVarP(
		&data.serverAddress, "server-address", "", "0.0.0.0:9090",
		"HTTP server address to serve files when --save-to is used. Example: --server-address 0.0.0.0:9090",
	)
	cmd.Flags().BoolVarP(
		&data.serverSkip, "server-skip", "", false,
		"Do not start the HTTP server when --save-to is used.",
	)
	cmd.Flags().BoolVarP(
		&data.saveOnly, "save-only", "", false,
		"Save data and exit. Requires --save-to. Example: -s ./results --save-only",
	)
	cmd.Flags().BoolVarP(
		&data.verbose, "verbose", "v", false,
		"Show failure details and failure pattern counters.",
	)
	cmd.Flags().BoolVarP(
		&data.failOnChecks, "fail-on-checks", "", false,
		"Exit with error when any quality check fails.",
	)

	return cmd
}

func checkFlags(input *Input) error {
	if input.coverageFile == "" && input.testsFile == "" {
		return errors.New("at least one of --coverage or --tests is required")
	}
	switch input.output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return errors.Errorf("invalid output format %q, use one of: text, json, yaml", input.output)
	}
	if input.threshold < 0 || input.threshold > 100 {
		return errors.Errorf("threshold %v must be between 0 and 100", input.threshold)
	}
	if input.saveOnly && input.saveTo == "" {
		return errors.New("--save-only requires --save-to")
	}
	return nil
}

// processResult loads the reports and shows them in the requested format.
func processResult(w io.Writer, input *Input) error {
	log.Debug("Creating report...")
	res, err := pipeline.Load(input.coverageFile, input.testsFile)
	if err != nil {
		return err
	}
	summary := export.NewSummary(res, input.threshold)

	if input.saveTo != "" {
		written, err := export.Save(input.saveTo, summary)
		if err != nil {
			return err
		}
		log.Infof("Saved %d files to %s", len(written), input.saveTo)
		if input.saveOnly {
			return nil
		}
	}

	switch input.output {
	case OutputJSON:
		err = export.WriteJSON(w, summary)
	case OutputYAML:
		err = export.WriteYAML(w, summary)
	default:
		err = showText(w, input, res, summary)
	}
	if err != nil {
		return err
	}
	if input.failOnChecks && summary.Checks.Failed() {
		return errors.Errorf("%d quality checks failed", len(summary.Checks.ByResult(checks.ResultFail)))
	}
	if input.output == OutputText && input.saveTo != "" && !input.serverSkip {
		return serveReport(input)
	}
	return nil
}

// serveReport blocks serving the saved files over HTTP.
func serveReport(input *Input) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(input.saveTo)))

	log.Debugf("Listening on %s...", input.serverAddress)
	log.Infof("The report server is available in http://%s, open your browser and navigate to results.", input.serverAddress)
	log.Infof("To get started open the report http://%s/%s.", input.serverAddress, export.ChartFile)
	if err := http.ListenAndServe(input.serverAddress, mux); err != nil {
		return errors.Wrapf(err, "unable to start the report server at address %s", input.serverAddress)
	}
	return nil
}

// showText prints the text report.
func showText(w io.Writer, input *Input, res *pipeline.Result, summary *export.Summary) error {
	if err := showCoverageSummary(w, summary); err != nil {
		return err
	}
	if err := showTestsSummary(w, res.Tests); err != nil {
		return err
	}
	if input.verbose {
		showErrorDetails(w, res.Tests, res.Failures)
	}
	if err := showChecks(w, summary.Checks); err != nil {
		return err
	}

	if input.saveTo != "" && input.serverSkip {
		log.Infof("The report server is not enabled (--server-skip=true), you'll need to navigate it locally")
		log.Infof("To get started open the report file://%s/%s.", input.saveTo, export.ChartFile)
	}
	return nil
}

func statusColor(status api.CoverageStatus) *color.Color {
	switch status {
	case api.CoverageStatusGood:
		return color.New(color.FgGreen)
	case api.CoverageStatusNeedsImprovement:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func showCoverageSummary(w io.Writer, s *export.Summary) error {
	if s.Coverage == nil {
		return nil
	}
	fmt.Fprintf(w, "\n> Coverage Summary <\n\n")

	cov := s.Coverage
	tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
	fmt.Fprintf(tbWriter, " Timestamp\t: %s\n", cov.Timestamp)
	fmt.Fprintf(tbWriter, " Line rate\t: %d%%\n", cov.TotalLineRate)
	fmt.Fprintf(tbWriter, " Branch rate\t: %d%%\n", cov.TotalBranchRate)
	fmt.Fprintf(tbWriter, " Status\t: %s (threshold %v%%)\n",
		statusColor(s.CoverageStatus).Sprint(s.CoverageStatus), s.Threshold)
	fmt.Fprintf(tbWriter, " Files\t: %d\n", cov.Total)
	fmt.Fprintf(tbWriter, " Complexity (avg)\t: %v\n", cov.ComplexityAvg)
	return tbWriter.Flush()
}

func showTestsSummary(w io.Writer, tr *api.TestReport) error {
	if tr == nil {
		return nil
	}
	fmt.Fprintf(w, "\n> Tests Summary <\n\n")

	summary := tr.Summary()
	tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
	fmt.Fprintf(tbWriter, " Total\t: %d\n", summary.TotalTests)
	fmt.Fprintf(tbWriter, " - Passed\t: %s\n", color.GreenString("%d", summary.TotalPassed))
	fmt.Fprintf(tbWriter, " - Failed\t: %s\n", color.RedString("%d", summary.TotalFailed))
	fmt.Fprintf(tbWriter, " - Errors\t: %s\n", color.RedString("%d", tr.TotalError))
	fmt.Fprintf(tbWriter, " - Skipped\t: %s\n", color.YellowString("%d", summary.TotalSkipped))
	fmt.Fprintf(tbWriter, " Success rate\t: %s\n", summary.SuccessRate)
	fmt.Fprintf(tbWriter, " Duration\t: %s\n", summary.TotalTime)
	if p90, ok := percentileTime(tr, 90); ok {
		fmt.Fprintf(tbWriter, " Test time (p90)\t: %s\n", api.HumanizeSeconds(p90))
	}
	if err := tbWriter.Flush(); err != nil {
		return err
	}

	if len(summary.SlowestTests) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n Slowest tests:\n")
	for _, tc := range summary.SlowestTests {
		fmt.Fprintf(w, " - %s (%s)\n", tc.Name, api.HumanizeSeconds(tc.Seconds()))
	}
	return nil
}

// percentileTime returns the percentile of the test times that were reported.
func percentileTime(tr *api.TestReport, percent float64) (float64, bool) {
	var times stats.Float64Data
	for _, tc := range tr.AllTests() {
		if tc.Time != nil {
			times = append(times, *tc.Time)
		}
	}
	if len(times) == 0 {
		return 0, false
	}
	p, err := times.Percentile(percent)
	if err != nil {
		return 0, false
	}
	return p, true
}

func showErrorDetails(w io.Writer, tr *api.TestReport, failures errorcounter.Counter) {
	if tr == nil {
		return
	}
	if len(tr.FailureSummary) > 0 {
		fmt.Fprintf(w, "\n> Failures <\n\n")
		suites := make([]string, 0, len(tr.FailureSummary))
		for suite := range tr.FailureSummary {
			suites = append(suites, suite)
		}
		sort.Strings(suites)
		for _, suite := range suites {
			fmt.Fprintf(w, " %s:\n", suite)
			for _, entry := range tr.FailureSummary[suite] {
				fmt.Fprintf(w, "  - %s\n", entry)
			}
		}
	}

	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n> Failure patterns <\n\n")
	patterns := make([]string, 0, len(failures))
	for k := range failures {
		if k != errorcounter.TotalKey {
			patterns = append(patterns, k)
		}
	}
	sort.Strings(patterns)
	tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
	for _, k := range patterns {
		fmt.Fprintf(tbWriter, " %s\t: %d\n", strings.TrimSpace(k), failures[k])
	}
	fmt.Fprintf(tbWriter, " %s\t: %d\n", errorcounter.TotalKey, failures[errorcounter.TotalKey])
	_ = tbWriter.Flush()
}

func showChecks(w io.Writer, sum *checks.Summary) error {
	tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
	fmt.Fprintf(tbWriter, "\n> Quality Checks\t\n")
	for _, group := range []struct {
		title  string
		result checks.ResultName
	}{
		{"Failed checks", checks.ResultFail},
		{"Warnings", checks.ResultWarn},
		{"Passed checks", checks.ResultPass},
		{"Skipped checks", checks.ResultSkip},
	} {
		found := sum.ByResult(group.result)
		if len(found) == 0 {
			continue
		}
		fmt.Fprintf(tbWriter, "\n>> %s:\t\n", group.title)
		for _, check := range found {
			fmt.Fprintf(tbWriter, " - [%s] %s\t: %s (want %s, got %s)\n",
				check.ID, check.Name, check.Result, check.Result.Target, check.Result.Actual)
		}
	}
	return tbWriter.Flush()
}
