// Package xmltree loads a whole XML document into a generic element tree
// that report parsers can walk without declaring a struct per dialect.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/webhook-reporter/webhook-reporter/internal/fileio"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

// Element is one XML element with its attributes, direct text and children
// in document order.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// Parse reads the file at path (xz aware) and returns its root element.
// Documents that are not well-formed are reported as *api.MalformedFileError.
func Parse(path string) (*Element, error) {
	data, err := fileio.ReadAll(path)
	if err != nil {
		return nil, err
	}
	root, err := Decode(data)
	if err != nil {
		return nil, &api.MalformedFileError{Path: path, Err: err}
	}
	return root, nil
}

// Decode builds the element tree from raw bytes.
func Decode(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &Element{}
	if err := dec.Decode(root); err != nil {
		return nil, err
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return nil, errors.Errorf("unexpected second root element <%s>", start.Name.Local)
		}
	}
	return root, nil
}

// Tag returns the local element name.
func (e *Element) Tag() string {
	return e.XMLName.Local
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// RequireAttr returns the named attribute, failing when it is absent.
func (e *Element) RequireAttr(name string) (string, error) {
	v, ok := e.Attr(name)
	if !ok {
		return "", errors.Errorf("<%s> is missing the required attribute %q", e.Tag(), name)
	}
	return v, nil
}

// RequireFloat returns the named attribute parsed as a float.
func (e *Element) RequireFloat(name string) (float64, error) {
	v, err := e.RequireAttr(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "<%s> attribute %q is not a number", e.Tag(), name)
	}
	return f, nil
}

// FloatOr parses the named attribute, returning def when it is absent.
// A present but non-numeric value is still an error.
func (e *Element) FloatOr(name string, def float64) (float64, error) {
	if _, ok := e.Attr(name); !ok {
		return def, nil
	}
	return e.RequireFloat(name)
}

// RequireInt returns the named attribute parsed as an integer.
func (e *Element) RequireInt(name string) (int, error) {
	v, err := e.RequireAttr(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(err, "<%s> attribute %q is not an integer", e.Tag(), name)
	}
	return i, nil
}

// ChildrenByTag returns the direct children named tag.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		if child.Tag() == tag {
			out = append(out, child)
		}
	}
	return out
}

// Child returns the first direct child named tag, or nil.
func (e *Element) Child(tag string) *Element {
	for _, child := range e.Children {
		if child.Tag() == tag {
			return child
		}
	}
	return nil
}

// FindAll returns every descendant named tag, at any depth, in document
// order. The element itself is not included.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		for _, child := range el.Children {
			if child.Tag() == tag {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

// FirstChild returns the first child element, or nil for a leaf.
func (e *Element) FirstChild() *Element {
	if len(e.Children) == 0 {
		return nil
	}
	return e.Children[0]
}
