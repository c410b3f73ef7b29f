// Package notify renders the run summary and delivers it to a chat webhook.
package notify

import (
	"strings"

	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const (
	defaultTitle      = "Test and Coverage Report"
	maxSectionEntries = 4
	maxEntryMessage   = 250
)

// Message is the data rendered by the message template.
type Message struct {
	Title          string
	Coverage       *api.CoverageReport
	CoverageStatus api.CoverageStatus
	Threshold      float64
	Tests          *api.TestReport
	Summary        api.TestSummary
	Sections       []Section
	Action         config.ActionInfo
}

// Section lists a few tests sharing a status. More counts the ones left out.
type Section struct {
	Title   string
	Entries []Entry
	More    int
}

type Entry struct {
	Name    string
	Message string
}

// NewMessage builds the message of a run. Either report may be nil.
func NewMessage(coverage *api.CoverageReport, tests *api.TestReport, threshold float64, action config.ActionInfo) *Message {
	msg := &Message{
		Title:     defaultTitle,
		Coverage:  coverage,
		Threshold: threshold,
		Tests:     tests,
		Action:    action,
	}
	if coverage != nil {
		msg.CoverageStatus = coverage.Status(threshold)
	}
	if tests != nil {
		msg.Summary = tests.Summary()
		for _, s := range []struct {
			title  string
			status api.TestStatus
		}{
			{"Failed tests", api.TestStatusFailed},
			{"Errored tests", api.TestStatusError},
			{"Skipped tests", api.TestStatusSkipped},
		} {
			if section, ok := newSection(s.title, tests.TestsByStatus(s.status)); ok {
				msg.Sections = append(msg.Sections, section)
			}
		}
	}
	return msg
}

func newSection(title string, cases []api.TestCase) (Section, bool) {
	if len(cases) == 0 {
		return Section{}, false
	}
	section := Section{Title: title}
	for i, tc := range cases {
		if i == maxSectionEntries {
			section.More = len(cases) - maxSectionEntries
			break
		}
		text := tc.Message
		if text == "" {
			text = tc.FullMessage
		}
		section.Entries = append(section.Entries, Entry{
			Name:    tc.Name,
			Message: cutMessage(text),
		})
	}
	return section, true
}

// cutMessage dedents a possibly multi-line message and keeps its first
// characters on one line.
func cutMessage(text string) string {
	text = strings.TrimSpace(dedent(text))
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxEntryMessage {
		return string(runes[:maxEntryMessage])
	}
	return text
}

// dedent removes the indentation shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
