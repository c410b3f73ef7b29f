package api

import (
	"fmt"
	"strings"
)

// TestStatus is the normalized result of a single test case.
type TestStatus int

const (
	TestStatusUnknown TestStatus = iota
	TestStatusPassed
	TestStatusFailed
	TestStatusError
	TestStatusSkipped
)

var testStatusNames = map[TestStatus]string{
	TestStatusUnknown: "unknown",
	TestStatusPassed:  "passed",
	TestStatusFailed:  "failed",
	TestStatusError:   "error",
	TestStatusSkipped: "skipped",
}

func (s TestStatus) String() string {
	if name, ok := testStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TestStatus(%d)", int(s))
}

// MarshalText renders the status as its lowercase name, used by both the JSON
// and YAML encoders.
func (s TestStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s TestStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ParseTestStatus maps a raw status token from any dialect to a TestStatus.
// Matching is by prefix, case-insensitive and whitespace-trimmed, so that
// "passed", "Failure", " FAIL " or "pending" are all understood.
func ParseTestStatus(raw string) TestStatus {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(status, "pass"):
		return TestStatusPassed
	case strings.HasPrefix(status, "fail"):
		return TestStatusFailed
	case strings.HasPrefix(status, "err"):
		return TestStatusError
	case strings.HasPrefix(status, "skip"), strings.HasPrefix(status, "pend"):
		return TestStatusSkipped
	}
	return TestStatusUnknown
}
