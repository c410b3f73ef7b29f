package notify

import (
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

const previewWordWrap = 100

// Preview renders the markdown message for a terminal, used when the message
// is printed instead of sent.
func Preview(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWordWrap),
	)
	if err != nil {
		return "", errors.Wrap(err, "unable to create markdown renderer")
	}
	out, err := renderer.Render(text)
	if err != nil {
		return "", errors.Wrap(err, "unable to render markdown")
	}
	return out, nil
}
