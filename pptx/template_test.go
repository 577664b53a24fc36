package pptx

import (
	"archive/zip"
	"bytes"
	"os"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTemplate saves a 16:9 deck with one slide to use as a template.
func writeTemplate(t *testing.T) string {
	t.Helper()
	p := New()
	p.GetLayout().SetLayout(LayoutScreen16x9)
	slide, err := p.AddSlide(mustLayout(t, p, "Title Slide"))
	require.NoError(t, err)
	ph, _ := slide.Placeholder(0)
	ph.SetText("template slide")
	path := filepath.Join(t.TempDir(), "template.pptx")
	require.NoError(t, p.Save(path))
	return path
}

func TestOpenTemplateDropsSlides(t *testing.T) {
	path := writeTemplate(t)
	p, err := OpenTemplate(path)
	require.NoError(t, err)

	assert.True(t, p.IsTemplateBased())
	assert.Equal(t, 0, p.GetSlideCount())
	assert.Equal(t, int64(12192000), p.GetLayout().CX)
	if diff := cmp.Diff(builtinNames, layoutNames(p)); diff != "" {
		t.Errorf("template layouts (-want +got):\n%s", diff)
	}
}

func TestTemplateDeckRoundTrip(t *testing.T) {
	path := writeTemplate(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p, err := OpenTemplateFrom(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	figure := writePNG(t, t.TempDir(), "fig.png", 40, 30)
	slide, err := p.AddSlide(mustLayout(t, p, "Picture with Caption"))
	require.NoError(t, err)
	ph, err := slide.Placeholder(1)
	require.NoError(t, err)
	ph.SetSize(Pixel(40), Pixel(30))
	_, err = ph.InsertPicture(slide, figure)
	require.NoError(t, err)

	got := roundTripFile(t, p)
	require.Equal(t, 1, got.GetSlideCount())
	if diff := cmp.Diff(builtinNames, layoutNames(got)); diff != "" {
		t.Errorf("layouts after template round trip (-want +got):\n%s", diff)
	}
	s, _ := got.GetSlide(0)
	assert.Equal(t, "Picture with Caption", s.GetLayout().Name)
	require.Len(t, s.Pictures(), 1)
	assert.Equal(t, 40, EMUToPixel(s.Pictures()[0].GetWidth()))
	assert.NoError(t, got.Validate())
}

// rewritePart copies the package in data, passing the named part through edit.
func rewritePart(t *testing.T, data []byte, name string, edit func(string) string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		if f.Name == name {
			content = []byte(edit(string(content)))
		}
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenTemplateIgnoresUnreadableSlides(t *testing.T) {
	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Blank"))
	require.NoError(t, err)
	_, err = slide.AddPicture(writePNG(t, t.TempDir(), "a.png", 20, 10), 0, 0, 0, 0)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, p.WriteTo(&buf))

	linked := rewritePart(t, buf.Bytes(), "ppt/slides/slide1.xml", func(s string) string {
		require.Contains(t, s, "r:embed=")
		return strings.ReplaceAll(s, "r:embed=", "r:link=")
	})

	_, err = ReadFrom(bytes.NewReader(linked), int64(len(linked)))
	require.Error(t, err, "a full read parses the slide")

	tmpl, err := OpenTemplateFrom(bytes.NewReader(linked), int64(len(linked)))
	require.NoError(t, err)
	assert.Equal(t, 0, tmpl.GetSlideCount())
	assert.Equal(t, builtinNames, layoutNames(tmpl))
}

func TestTemplatePartsPassThrough(t *testing.T) {
	path := writeTemplate(t)
	p, err := OpenTemplate(path)
	require.NoError(t, err)

	tmpl := p.template
	require.NotNil(t, tmpl)
	assert.True(t, tmpl.has("ppt/slideMasters/slideMaster1.xml"))
	assert.True(t, tmpl.has("ppt/slideMasters/_rels/slideMaster1.xml.rels"))
	assert.True(t, tmpl.has("ppt/slideLayouts/slideLayout9.xml"))
	assert.True(t, tmpl.has("ppt/theme/theme1.xml"))
	assert.False(t, tmpl.has("ppt/slides/slide1.xml"))
	assert.Equal(t, "ppt/theme/theme1.xml", tmpl.themePart)
	assert.Equal(t, ctSlideLayout, tmpl.contentTypes["ppt/slideLayouts/slideLayout1.xml"])
	assert.Equal(t, ctTheme, tmpl.contentTypes["ppt/theme/theme1.xml"])

	var buf bytes.Buffer
	require.NoError(t, p.WriteTo(&buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	written, err := readZipString(zr, "ppt/theme/theme1.xml")
	require.NoError(t, err)
	assert.Equal(t, string(tmpl.parts["ppt/theme/theme1.xml"]), written)
}

func TestNilTemplate(t *testing.T) {
	var tmpl *templatePackage
	assert.False(t, tmpl.has("anything"))
	assert.Empty(t, tmpl.partNames())
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"ppt/slides", "ppt/slideLayouts/slideLayout1.xml", "../slideLayouts/slideLayout1.xml"},
		{"ppt/slides", "ppt/media/image1.png", "../media/image1.png"},
		{"ppt", "ppt/slideMasters/slideMaster1.xml", "slideMasters/slideMaster1.xml"},
		{"ppt/slideMasters", "ppt/theme/theme1.xml", "../theme/theme1.xml"},
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTarget(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestResolvePartName(t *testing.T) {
	assert.Equal(t, "ppt/slideLayouts/slideLayout2.xml",
		resolvePartName("ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml"))
	assert.Equal(t, "ppt/media/image1.png",
		resolvePartName("ppt/slideLayouts/slideLayout2.xml", "/ppt/media/image1.png"))
	assert.Equal(t, "ppt/presentation.xml", resolvePartName("", "ppt/presentation.xml"))
	assert.Equal(t, "ppt/slideMasters/_rels/slideMaster1.xml.rels",
		relsPartFor("ppt/slideMasters/slideMaster1.xml"))
}
