package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webhook-reporter/webhook-reporter/internal/export"
)

var (
	coverageFixture = filepath.Join("..", "..", "..", "internal", "parser", "testdata", "clover.xml")
	testsFixture    = filepath.Join("..", "..", "..", "internal", "reader", "testdata", "junit_with_fails.xml")
)

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr string
	}{
		{"valid", Input{coverageFile: "c.xml", output: OutputText, threshold: 65}, ""},
		{"tests only", Input{testsFile: "t.xml", output: OutputJSON, threshold: 0}, ""},
		{"no input", Input{output: OutputText}, "at least one of"},
		{"bad output", Input{coverageFile: "c.xml", output: "xml"}, "invalid output format"},
		{"bad threshold", Input{coverageFile: "c.xml", output: OutputText, threshold: 101}, "between 0 and 100"},
		{"save only", Input{coverageFile: "c.xml", output: OutputText, saveOnly: true}, "--save-only requires"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkFlags(&tc.input)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestProcessResultText(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile: coverageFixture,
		testsFile:    testsFixture,
		threshold:    65,
		output:       OutputText,
		verbose:      true,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "> Coverage Summary <")
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "> Tests Summary <")
	assert.Contains(t, out, "Slowest tests:")
	assert.Contains(t, out, "test_failing_test: assert 1 == 2")
	assert.Contains(t, out, "> Failure patterns <")
	assert.Contains(t, out, "AssertionError")
	assert.Contains(t, out, "> Quality Checks")
	assert.Contains(t, out, "[WR-004] Test suites must have no failed tests")
}

func TestProcessResultFailOnChecks(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile: coverageFixture,
		testsFile:    testsFixture,
		threshold:    65,
		output:       OutputJSON,
		failOnChecks: true,
	})
	assert.ErrorContains(t, err, "2 quality checks failed")
	assert.Contains(t, buf.String(), `"checks"`)
}

func TestProcessResultFailOnChecksBeforeServing(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile:  coverageFixture,
		testsFile:     testsFixture,
		threshold:     65,
		output:        OutputText,
		saveTo:        t.TempDir(),
		serverAddress: "127.0.0.1:0",
		failOnChecks:  true,
	})
	assert.ErrorContains(t, err, "2 quality checks failed")
	assert.Contains(t, buf.String(), "Quality Checks")
}

func TestProcessResultServerError(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile:  coverageFixture,
		threshold:     30,
		output:        OutputText,
		saveTo:        t.TempDir(),
		serverAddress: "invalid-address",
	})
	assert.ErrorContains(t, err, "unable to start the report server")
}

func TestProcessResultJSON(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile: coverageFixture,
		threshold:    30,
		output:       OutputJSON,
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "good", got["coverageStatus"])
	assert.NotContains(t, got, "tests")
}

func TestProcessResultYAML(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{testsFile: testsFixture, output: OutputYAML})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "totalTests: 6")
}

func TestProcessResultSaveOnly(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	err := processResult(&buf, &Input{
		coverageFile: coverageFixture,
		testsFile:    testsFixture,
		threshold:    65,
		output:       OutputText,
		saveTo:       dir,
		saveOnly:     true,
	})
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	for _, name := range []string{export.SummaryFile, export.WorkbookFile, export.ChartFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestProcessResultMissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := processResult(&buf, &Input{coverageFile: "missing.xml", output: OutputText})
	assert.Error(t, err)
}
