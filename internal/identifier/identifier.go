// Package identifier sniffs the dialect of coverage and test report XML
// documents from their root element alone. File names and extensions are
// never inspected.
package identifier

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/fileio"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Root is the structural fingerprint of an XML document.
type Root struct {
	Tag      string
	Attrs    map[string]string
	Children []string
}

// HasAttrs reports whether every named attribute is present on the root.
func (r *Root) HasAttrs(names ...string) bool {
	for _, name := range names {
		if _, ok := r.Attrs[name]; !ok {
			return false
		}
	}
	return true
}

// HasChild reports whether the root has a direct child element named tag.
func (r *Root) HasChild(tag string) bool {
	for _, child := range r.Children {
		if child == tag {
			return true
		}
	}
	return false
}

// LoadRoot reads the whole document, checking it is well-formed, and returns
// its root fingerprint. Syntax errors are reported as *api.MalformedFileError.
func LoadRoot(path string) (*Root, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	root, err := decodeRoot(rc)
	if err != nil {
		return nil, &api.MalformedFileError{Path: path, Err: err}
	}
	return root, nil
}

func decodeRoot(r io.Reader) (*Root, error) {
	var root *Root
	depth := 0
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 0 && root != nil:
				return nil, errors.Errorf("unexpected second root element <%s>", t.Name.Local)
			case depth == 0:
				root = &Root{Tag: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
				for _, attr := range t.Attr {
					root.Attrs[attr.Name.Local] = attr.Value
				}
			case depth == 1:
				root.Children = append(root.Children, t.Name.Local)
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// Rule classifies a root into a format when Match holds. Lower Precedence
// values are evaluated first.
type Rule[F ~string] struct {
	Format     F
	Precedence int
	Match      func(root *Root) bool
}

func sortRules[F ~string](rules []Rule[F]) []Rule[F] {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Precedence < rules[j].Precedence
	})
	return rules
}

func matchRules[F ~string](rules []Rule[F], root *Root) (F, bool) {
	for _, rule := range rules {
		if rule.Match(root) {
			return rule.Format, true
		}
	}
	var none F
	return none, false
}
