package notify

import (
	"bytes"
	"io/fs"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/assets"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

var statusIcons = map[api.CoverageStatus]string{
	api.CoverageStatusGood:             "🟢",
	api.CoverageStatusNeedsImprovement: "🟡",
	api.CoverageStatusCritical:         "🔴",
}

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["humanizeSeconds"] = api.HumanizeSeconds
	funcs["statusIcon"] = func(s api.CoverageStatus) string {
		return statusIcons[s]
	}
	return funcs
}

// Render executes the message template found in fsys.
func Render(fsys fs.FS, msg *Message) (string, error) {
	if fsys == nil {
		return "", errors.New("no template data available")
	}
	raw, err := fs.ReadFile(fsys, assets.MessageTemplate)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read template %s", assets.MessageTemplate)
	}
	tmpl, err := template.New("message").Funcs(funcMap()).Parse(string(raw))
	if err != nil {
		return "", errors.Wrap(err, "unable to parse message template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, msg); err != nil {
		return "", errors.Wrap(err, "unable to render message")
	}
	return buf.String(), nil
}
