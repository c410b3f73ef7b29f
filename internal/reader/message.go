package reader

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

const (
	shortMessageLength = 50
	pathMarker         = "//"
)

// StripANSI removes terminal escape sequences, such as the colors Jest
// writes into failure messages.
func StripANSI(text string) string {
	return ansi.Strip(text)
}

// ShortMessage returns a one-glance version of a failure message. A leading
// path-like token ending in "//" is dropped, then the text is cut to its
// first 50 characters.
func ShortMessage(text string) string {
	if prefix, rest, found := strings.Cut(text, pathMarker); found && !strings.ContainsFunc(prefix, unicode.IsSpace) {
		text = rest
	}
	if runes := []rune(text); len(runes) > shortMessageLength {
		text = string(runes[:shortMessageLength])
	}
	return text
}
