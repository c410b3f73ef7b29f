// Package errorcounter counts well known failure patterns in test output.
package errorcounter

import (
	"regexp"

	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// TotalKey holds the sum of all pattern matches.
const TotalKey = "total"

// CommonFailurePatterns are the patterns counted across failed tests.
var CommonFailurePatterns = []string{
	`AssertionError`,
	`[Tt]imeout`,
	`panic(\.go)?:`,
	`expect\(`,
	`Error:`,
}

// Counter maps a pattern to its occurrences.
type Counter map[string]int

// New counts each pattern in buf. It returns nil when nothing matched.
func New(buf string, patterns []string) Counter {
	total := 0
	counters := make(Counter, len(patterns)+1)
	for _, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		if matches := re.FindAllStringIndex(buf, -1); len(matches) != 0 {
			counters[pattern] += len(matches)
			total += len(matches)
		}
	}
	if total == 0 {
		return nil
	}
	counters[TotalKey] = total
	return counters
}

// Merge sums two counters into a new one. Either may be nil.
func Merge(c1, c2 Counter) Counter {
	merged := make(Counter, len(c1)+len(c2))
	for k, v := range c1 {
		merged[k] += v
	}
	for k, v := range c2 {
		merged[k] += v
	}
	return merged
}

// FromReport counts CommonFailurePatterns in the messages of failed and
// errored tests.
func FromReport(tr *api.TestReport) Counter {
	counter := Counter{}
	if tr == nil {
		return counter
	}
	for _, tc := range tr.AllTests() {
		if tc.Status != api.TestStatusFailed && tc.Status != api.TestStatusError {
			continue
		}
		text := tc.FullMessage
		if text == "" {
			text = tc.Message
		}
		counter = Merge(counter, New(text, CommonFailurePatterns))
	}
	return counter
}
