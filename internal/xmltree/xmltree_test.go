package xmltree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

const doc = `<?xml version="1.0"?>
<report name="demo" count="3" ratio="0.5">
  <package name="a">
    <class name="A1"><counter type="LINE"/></class>
    <class name="A2"/>
  </package>
  <class name="top"/>
  <note>hello</note>
</report>`

func TestDecodeWalk(t *testing.T) {
	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "report", root.Tag())
	assert.Equal(t, "demo", root.AttrOr("name", ""))
	assert.Equal(t, "fallback", root.AttrOr("missing", "fallback"))

	classes := root.FindAll("class")
	require.Len(t, classes, 3)
	assert.Equal(t, "A1", classes[0].AttrOr("name", ""))
	assert.Equal(t, "A2", classes[1].AttrOr("name", ""))
	assert.Equal(t, "top", classes[2].AttrOr("name", ""))

	assert.Len(t, root.ChildrenByTag("class"), 1)
	assert.Equal(t, "package", root.FirstChild().Tag())
	assert.Nil(t, classes[1].FirstChild())
	assert.Equal(t, "hello", root.Child("note").Text)
	assert.Nil(t, root.Child("missing"))
}

func TestNumericAttributes(t *testing.T) {
	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	count, err := root.RequireInt("count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	ratio, err := root.RequireFloat("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, ratio)

	def, err := root.FloatOr("time", 0)
	require.NoError(t, err)
	assert.Zero(t, def)

	_, err = root.RequireFloat("name")
	assert.ErrorContains(t, err, `attribute "name" is not a number`)

	_, err = root.FloatOr("name", 0)
	assert.Error(t, err)

	_, err = root.RequireAttr("missing")
	assert.ErrorContains(t, err, `<report> is missing the required attribute "missing"`)
}

func TestParseMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<coverage><packages></coverage>"), 0644))

	_, err := Parse(path)
	var malformed *api.MalformedFileError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, path, malformed.Path)
}

func TestDecodeTrailingContent(t *testing.T) {
	root, err := Decode([]byte(doc + "\n<!-- generated -->\n"))
	require.NoError(t, err)
	assert.Equal(t, "report", root.Tag())

	_, err = Decode([]byte(doc + `<report name="other"/>`))
	assert.ErrorContains(t, err, "unexpected second root element <report>")

	_, err = Decode([]byte(doc + `<report name="open">`))
	assert.Error(t, err)
}
