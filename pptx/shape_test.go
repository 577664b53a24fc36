package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderSizeKeepsInheritedOffset(t *testing.T) {
	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Picture with Caption"))
	require.NoError(t, err)
	pic, err := slide.Placeholder(1)
	require.NoError(t, err)
	require.Equal(t, PlaceholderPicture, pic.GetPlaceholderType())

	pic.SetSize(Pixel(320), Pixel(200))
	assert.True(t, pic.IsPositioned())
	assert.Equal(t, int64(1792288), pic.GetOffsetX())
	assert.Equal(t, int64(612775), pic.GetOffsetY())
	assert.Equal(t, int64(320*9525), pic.GetWidth())
	assert.Equal(t, int64(200*9525), pic.GetHeight())
}

func TestInsertPictureIntoPlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "figure.png", 64, 48)

	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Picture with Caption"))
	require.NoError(t, err)
	ph, err := slide.Placeholder(1)
	require.NoError(t, err)
	ph.SetSize(Pixel(64), Pixel(48))

	pic, err := ph.InsertPicture(slide, path)
	require.NoError(t, err)
	assert.True(t, pic.IsPlaceholder())
	assert.Equal(t, 1, pic.GetPlaceholderIndex())
	assert.Equal(t, PlaceholderPicture, pic.GetPlaceholderType())
	assert.Equal(t, "image/png", pic.GetMimeType())
	assert.Equal(t, "figure.png", pic.GetDescription())

	// the placeholder is gone and the picture sits where it was
	_, err = slide.Placeholder(1)
	assert.ErrorIs(t, err, ErrPlaceholderNotFound)
	assert.Equal(t, 3, slide.GetShapeCount())
	assert.Same(t, pic, slide.GetShapes()[1])

	got := roundTrip(t, p)
	s, _ := got.GetSlide(0)
	pics := s.Pictures()
	require.Len(t, pics, 1)
	w, h := pics[0].GetPixelSize()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
	assert.Equal(t, 64, EMUToPixel(pics[0].GetWidth()))
	assert.Equal(t, 48, EMUToPixel(pics[0].GetHeight()))
	assert.Equal(t, 1, pics[0].GetPlaceholderIndex())
	assert.Equal(t, ph.GetOffsetX(), pics[0].GetOffsetX())
}

func TestInsertPictureMissingFile(t *testing.T) {
	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Picture with Caption"))
	require.NoError(t, err)
	ph, _ := slide.Placeholder(1)
	_, err = ph.InsertPicture(slide, "does/not/exist.png")
	require.Error(t, err)
	// the slide is untouched
	_, err = slide.Placeholder(1)
	assert.NoError(t, err)
}

func TestAddPictureScaling(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "wide.png", 200, 100)

	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Blank"))
	require.NoError(t, err)

	tests := []struct {
		name         string
		w, h         int64
		wantW, wantH int64
	}{
		{"native", 0, 0, Pixel(200), Pixel(100)},
		{"width only", 9144000, 0, 9144000, 4572000},
		{"height only", 0, Pixel(50), Pixel(100), Pixel(50)},
		{"both", 1000, 2000, 1000, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic, err := slide.AddPicture(path, 0, 0, tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, pic.GetWidth())
			assert.Equal(t, tt.wantH, pic.GetHeight())
			assert.False(t, pic.IsPlaceholder())
			assert.Equal(t, -1, pic.GetPlaceholderIndex())
		})
	}
	assert.Len(t, slide.Pictures(), len(tests))
}

func TestSetTextSplitsParagraphs(t *testing.T) {
	ph := NewPlaceholderShape(PlaceholderBody, 2)
	assert.False(t, ph.HasText())
	ph.SetText("first\n\nthird")
	require.Len(t, ph.GetParagraphs(), 3)
	assert.Equal(t, "first\n\nthird", ph.GetText())
	assert.True(t, ph.HasText())
}

func TestFontRoundTrip(t *testing.T) {
	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Title Only"))
	require.NoError(t, err)
	title, _ := slide.Placeholder(0)
	title.SetText("Styled")
	title.GetParagraphs()[0].GetTextRuns()[0].GetFont().SetSize(28).SetBold(true).SetColor("#1f497d")

	got := roundTrip(t, p)
	s, _ := got.GetSlide(0)
	gt, err := s.Placeholder(0)
	require.NoError(t, err)
	f := gt.GetParagraphs()[0].GetTextRuns()[0].GetFont()
	assert.Equal(t, 28, f.Size)
	assert.True(t, f.Bold)
	assert.False(t, f.Italic)
	assert.Equal(t, "1F497D", f.Color)
}

func TestShapeTypeString(t *testing.T) {
	assert.Equal(t, "placeholder", ShapeTypePlaceholder.String())
	assert.Equal(t, "picture", ShapeTypePicture.String())
	assert.Equal(t, "ShapeType(7)", ShapeType(7).String())
}
