package adm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/webhook-reporter/webhook-reporter/internal/identifier"
)

var identifyCmd = &cobra.Command{
	Use:     "identify FILE",
	Example: "webhook-reporter adm identify coverage.xml",
	Short:   "Print the coverage or test report dialect of an XML file.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return identifyRun(cmd.OutOrStdout(), args[0])
	},
}

// identifyRun tries the coverage rules first, then the test suite rules, on
// a single read of the document.
func identifyRun(w io.Writer, path string) error {
	root, err := identifier.LoadRoot(path)
	if err != nil {
		return err
	}
	if format, ok := identifier.ClassifyCoverage(root); ok {
		fmt.Fprintf(w, "coverage: %s\n", format)
		return nil
	}
	if format, ok := identifier.ClassifySuite(root); ok {
		fmt.Fprintf(w, "tests: %s\n", format)
		return nil
	}
	return errors.Errorf("unable to identify %s: unknown root element <%s>", path, root.Tag)
}
