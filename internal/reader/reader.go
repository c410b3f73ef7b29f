// Package reader turns test result files into api.TestReport values.
package reader

import (
	"path/filepath"
	"strings"

	"github.com/webhook-reporter/webhook-reporter/internal/fileio"
	"github.com/webhook-reporter/webhook-reporter/internal/identifier"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Reader reads one test report dialect.
type Reader interface {
	Read(path string) (*api.TestReport, error)
}

var registry = map[identifier.SuiteFormat]Reader{
	identifier.SuiteFormatJUnit: &JUnit{},
}

// NewReader returns the reader for path. An empty path yields no reader and
// no error: runs reporting coverage only are valid.
func NewReader(path string) (Reader, error) {
	if path == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(fileio.TrimCompression(path))) {
	case ".json":
		return &Jest{}, nil
	case ".xml":
	default:
		return nil, api.NewUnsupportedTestReportTypeError(path, "", api.ReasonUnknownFormat)
	}

	format, err := identifier.IdentifySuite(path)
	if err != nil {
		return nil, err
	}
	r, ok := registry[format]
	if !ok {
		return nil, api.NewUnsupportedTestReportTypeError(path, string(format), api.ReasonNoImplementation)
	}
	return r, nil
}

// ReadFile is a shortcut for NewReader followed by Read. It returns a nil
// report when path is empty.
func ReadFile(path string) (*api.TestReport, error) {
	r, err := NewReader(path)
	if err != nil || r == nil {
		return nil, err
	}
	return r.Read(path)
}
