package api

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	issueTrackerURL = "https://github.com/webhook-reporter/webhook-reporter/issues/new"
	issueAssignee   = "webhook-reporter"
)

// UnsupportedReason tells apart a document matching no known dialect from a
// recognized dialect that has no parser or reader.
type UnsupportedReason string

const (
	ReasonUnknownFormat    UnsupportedReason = "unknown-format"
	ReasonNoImplementation UnsupportedReason = "no-implementation"
)

// MalformedFileError is returned when a file is not well-formed XML or JSON.
type MalformedFileError struct {
	Path string
	Err  error
}

func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("the file '%s' contains errors and cannot be parsed: %v", e.Path, e.Err)
}

func (e *MalformedFileError) Unwrap() error {
	return e.Err
}

// UnsupportedCoverageTypeError is returned when a coverage file matches no
// known dialect, or a dialect without a parser.
type UnsupportedCoverageTypeError struct {
	Path     string
	Format   string
	Reason   UnsupportedReason
	IssueURL string
}

// NewUnsupportedCoverageTypeError creates the error with its support link.
func NewUnsupportedCoverageTypeError(path, format string, reason UnsupportedReason) *UnsupportedCoverageTypeError {
	return &UnsupportedCoverageTypeError{
		Path:     path,
		Format:   format,
		Reason:   reason,
		IssueURL: IssueURL("Unsupported Coverage Format", "coverage", path, format, reason, "new_coverage_support"),
	}
}

func (e *UnsupportedCoverageTypeError) Error() string {
	if e.Reason == ReasonNoImplementation {
		return fmt.Sprintf("coverage format '%s' of file '%s' is recognized but no parser is implemented for it. Raise a ticket here: %s",
			e.Format, e.Path, e.IssueURL)
	}
	return fmt.Sprintf("coverage format of file '%s' is not supported. Raise a ticket here: %s", e.Path, e.IssueURL)
}

// UnsupportedTestReportTypeError is returned when a test report matches no
// known dialect, or a dialect without a reader.
type UnsupportedTestReportTypeError struct {
	Path     string
	Format   string
	Reason   UnsupportedReason
	IssueURL string
}

// NewUnsupportedTestReportTypeError creates the error with its support link.
func NewUnsupportedTestReportTypeError(path, format string, reason UnsupportedReason) *UnsupportedTestReportTypeError {
	return &UnsupportedTestReportTypeError{
		Path:     path,
		Format:   format,
		Reason:   reason,
		IssueURL: IssueURL("Unsupported Test Report Format", "test report", path, format, reason, "new_test_report_support"),
	}
}

func (e *UnsupportedTestReportTypeError) Error() string {
	if e.Reason == ReasonNoImplementation {
		return fmt.Sprintf("test report format '%s' of file '%s' is recognized but no reader is implemented for it. Raise a ticket here: %s",
			e.Format, e.Path, e.IssueURL)
	}
	return fmt.Sprintf("test report format of file '%s' is not supported. Raise a ticket here: %s", e.Path, e.IssueURL)
}

// IssueURL builds a pre-filled "new issue" link asking for support of a
// report format.
func IssueURL(title, kind, path, format string, reason UnsupportedReason, label string) string {
	if format == "" {
		format = "unknown"
	}
	body := strings.Join([]string{
		fmt.Sprintf("### %s format '%s' is not supported", kind, format),
		"Please check the configuration or extend the support for this format.",
		"",
		"##### Error Details:",
		fmt.Sprintf("- File: %s", path),
		fmt.Sprintf("- Reason: %s", reason),
		"- Triggered by: report parsing",
	}, "\n")

	q := url.Values{}
	q.Set("title", title)
	q.Set("body", body)
	q.Set("labels", label)
	q.Set("assignee", issueAssignee)
	return issueTrackerURL + "?" + q.Encode()
}
