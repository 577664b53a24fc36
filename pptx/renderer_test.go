package pptx

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlideToImageSize(t *testing.T) {
	p := New()
	_, err := p.AddSlide(mustLayout(t, p, "Blank"))
	require.NoError(t, err)

	img, err := p.SlideToImage(0, nil)
	require.NoError(t, err)
	// 4:3 => 960:720
	assert.Equal(t, 960, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())

	_, err = p.SlideToImage(1, nil)
	assert.Error(t, err)
}

func TestSlideToImageDrawsPicture(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "fig.png", 100, 75)

	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Blank"))
	require.NoError(t, err)
	_, err = slide.AddPicture(path, 0, 0, p.GetLayout().CX, 0)
	require.NoError(t, err)

	opts := DefaultRenderOptions()
	opts.Width = 200
	img, err := p.SlideToImage(0, opts)
	require.NoError(t, err)

	// full-bleed picture covers the top-left corner
	r, g, b, _ := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(40), r>>8)
	assert.Equal(t, uint32(120), g>>8)
	assert.Equal(t, uint32(200), b>>8)
}

func TestSaveSlidesAsImages(t *testing.T) {
	p := New()
	for _, name := range []string{"Title Slide", "Blank"} {
		slide, err := p.AddSlide(mustLayout(t, p, name))
		require.NoError(t, err)
		if ph, err := slide.Placeholder(0); err == nil {
			ph.SetText("Preview")
		}
	}

	dir := t.TempDir()
	opts := DefaultRenderOptions()
	opts.Outline = true
	paths, err := p.SaveSlidesAsImages(filepath.Join(dir, "slide_%d.png"), opts)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, path := range paths {
		f, err := os.Open(path)
		require.NoError(t, err)
		_, err = png.Decode(f)
		f.Close()
		assert.NoError(t, err)
	}
}

func TestRenderThumbnail(t *testing.T) {
	p := New()
	_, err := p.RenderThumbnail(256)
	require.Error(t, err)

	slide, err := p.AddSlide(mustLayout(t, p, "Title Slide"))
	require.NoError(t, err)
	ph, _ := slide.Placeholder(0)
	ph.SetText("ABC123")

	data, err := p.RenderThumbnail(256)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	p.GetPresentationProperties().SetThumbnailData(data)
	got := roundTrip(t, p)
	assert.Equal(t, data, got.GetPresentationProperties().GetThumbnailData())
}

func TestRenderWithMissingFontFile(t *testing.T) {
	p := New()
	slide, err := p.AddSlide(mustLayout(t, p, "Title Only"))
	require.NoError(t, err)
	ph, _ := slide.Placeholder(0)
	ph.SetText("fallback face")

	opts := DefaultRenderOptions()
	opts.FontFile = filepath.Join(t.TempDir(), "nope.ttf")
	_, err = p.SlideToImage(0, opts)
	assert.NoError(t, err)
}
