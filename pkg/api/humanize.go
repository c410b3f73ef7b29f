package api

import (
	"fmt"
	"math"
	"strings"
)

// HumanizeSeconds renders a duration in seconds as "Xm Ys", dropping the
// zero parts. Fractions are rounded to the nearest second, halves to even.
func HumanizeSeconds(seconds float64) string {
	if seconds < 0 {
		return "negative time"
	}
	total := int64(math.RoundToEven(seconds))
	if total == 0 {
		return "0s"
	}

	parts := []string{}
	if minutes := total / 60; minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if rest := total % 60; rest > 0 {
		parts = append(parts, fmt.Sprintf("%ds", rest))
	}
	return strings.Join(parts, " ")
}

// TruncateText cuts text to max characters, appending an ellipsis when
// something was removed.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
