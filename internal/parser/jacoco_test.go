package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacocoParseAndNormalize(t *testing.T) {
	report, err := (&Jacoco{}).ParseAndNormalize(testdata("jacoco.xml"))
	require.NoError(t, err)

	assert.Equal(t, 50, report.TotalLineRate)
	assert.Equal(t, 0, report.TotalBranchRate)
	assert.Equal(t, "1727548394000", report.Timestamp)
	assert.InDelta(t, 4.0, report.ComplexityAvg, 1e-9)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "Main.java", report.Files[0].Filename)
	assert.InDelta(t, 0.0, report.Files[0].LineRate, 1e-9)
	assert.InDelta(t, 3, report.Files[0].Complexity, 1e-9)
	assert.Equal(t, "Calculator.java", report.Files[1].Filename)
	assert.InDelta(t, 1.0, report.Files[1].LineRate, 1e-9)
	assert.InDelta(t, 5, report.Files[1].Complexity, 1e-9)
}

func TestJacocoBranches(t *testing.T) {
	report, err := (&Jacoco{}).ParseAndNormalize(testdata("jacoco_branches.xml"))
	require.NoError(t, err)

	assert.Equal(t, "shop", report.Timestamp)
	assert.Equal(t, 50, report.TotalLineRate)
	assert.Equal(t, 37, report.TotalBranchRate)
	assert.Equal(t, 3, report.Total)
	assert.InDelta(t, 2.6667, report.ComplexityAvg, 1e-9)

	require.Len(t, report.Files, 3)
	assert.InDelta(t, 1.0, report.Files[0].LineRate, 1e-9)
	assert.InDelta(t, 0.75, report.Files[0].BranchRate, 1e-9)
	assert.InDelta(t, 5, report.Files[0].Complexity, 1e-9)

	// a class without counters has nothing to measure.
	assert.Equal(t, "Pay.java", report.Files[2].Filename)
	assert.Zero(t, report.Files[2].LineRate)
	assert.Zero(t, report.Files[2].BranchRate)
	assert.Zero(t, report.Files[2].Complexity)
}

func TestJacocoGroupedPackages(t *testing.T) {
	report, err := ParseFile(testdata("jacoco_grouped.xml"))
	require.NoError(t, err)

	assert.Equal(t, "aggregate", report.Timestamp)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 50, report.TotalLineRate)
	assert.Equal(t, 50, report.TotalBranchRate)
	assert.InDelta(t, 1.5, report.ComplexityAvg, 1e-9)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "Alpha.java", report.Files[0].Filename)
	assert.InDelta(t, 1.0, report.Files[0].LineRate, 1e-9)
	assert.InDelta(t, 0.75, report.Files[0].BranchRate, 1e-9)
	assert.Equal(t, "Beta.java", report.Files[1].Filename)
	assert.InDelta(t, 0.0, report.Files[1].LineRate, 1e-9)
	assert.InDelta(t, 0.25, report.Files[1].BranchRate, 1e-9)
}

func TestJacocoSingleGroup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jacoco.xml")
	doc := `<report name="agg"><group name="mod-a"><package name="p">` +
		`<class sourcefilename="A.java"><counter type="LINE" missed="0" covered="10"/></class>` +
		`</package></group></report>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	report, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 100, report.TotalLineRate)
}
