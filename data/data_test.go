package data

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	efs "github.com/webhook-reporter/webhook-reporter/internal/assets"
)

//go:embed templates
var testTemplatesAll embed.FS

// TestDataTemplates asserts the message templates are present in EFS.
func TestDataTemplates(t *testing.T) {
	type testCase struct {
		name   string
		assert func(tc *testCase)
	}
	cases := []testCase{
		{
			name: "templates-required",
			assert: func(tc *testCase) {
				want := []string{efs.MessageTemplate}
				got, err := efs.GetAllFilenames(efs.GetData(), "templates")
				require.NoError(t, err, "failed to read efs")
				assert.Equal(t, want, got, "template files are present")
			},
		},
		{
			name: "templates-readable",
			assert: func(tc *testCase) {
				files, err := efs.GetAllFilenames(efs.GetData(), "templates")
				require.NoError(t, err, "failed to read efs")
				for _, f := range files {
					content, err := efs.ReadFile(f)
					require.NoError(t, err, "unable to read template %s", f)
					assert.NotEmpty(t, content, "empty template %s", f)
				}
			},
		},
	}

	efs.UpdateData(testTemplatesAll)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assert(&tc)
		})
	}
}
