package adm

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webhook-reporter/webhook-reporter/internal/reader"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

type parseJUnitInput struct {
	skipFailed  bool
	skipPassed  bool
	skipSkipped bool
}

var parseJUnitArgs parseJUnitInput
var parseJUnitCmd = &cobra.Command{
	Use:     "parse-junit FILE",
	Example: "webhook-reporter adm parse-junit junit.xml",
	Short:   "Parse JUnit file.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseJUnitRun(cmd.OutOrStdout(), args[0], &parseJUnitArgs)
	},
}

func init() {
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipFailed, "skip-failed", false, "Skip printing on stdout the failed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipPassed, "skip-passed", false, "Skip printing on stdout the passed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipSkipped, "skip-skipped", false, "Skip printing on stdout the skipped test names.")
}

func parseJUnitRun(w io.Writer, junitFile string, input *parseJUnitInput) error {
	tr, err := (&reader.JUnit{}).Read(junitFile)
	if err != nil {
		return fmt.Errorf("error parsing JUnit file: %w", err)
	}

	// Printing summary
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "- File: %s\n", junitFile)
	fmt.Fprintf(w, "- Suites: %d\n", len(tr.Suites))
	fmt.Fprintf(w, "- Total: %d\n", tr.TotalTests)
	fmt.Fprintf(w, "- Pass: %d\n", tr.TotalPassed)
	fmt.Fprintf(w, "- Skipped: %d\n", tr.TotalSkipped)
	fmt.Fprintf(w, "- Failures: %d\n", tr.TotalFailed)
	fmt.Fprintf(w, "- Errors: %d\n", tr.TotalError)
	fmt.Fprintf(w, "- Time: %s\n", api.HumanizeSeconds(tr.TotalTime))

	names := func(status api.TestStatus) []string {
		var out []string
		for _, tc := range tr.TestsByStatus(status) {
			out = append(out, tc.Name)
		}
		return out
	}
	failed := names(api.TestStatusFailed)
	passed := names(api.TestStatusPassed)
	skipped := names(api.TestStatusSkipped)

	if !input.skipPassed {
		fmt.Fprintf(w, "\n#> Passed tests (%d): \n%s\n", len(passed), strings.Join(passed, "\n"))
	}
	if !input.skipFailed {
		fmt.Fprintf(w, "\n#> Failed tests (%d): \n%s\n", len(failed), strings.Join(failed, "\n"))
	}
	if !input.skipSkipped {
		fmt.Fprintf(w, "\n#> Skipped tests (%d): \n%s\n", len(skipped), strings.Join(skipped, "\n"))
	}
	return nil
}
