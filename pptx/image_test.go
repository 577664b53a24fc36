package pptx

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImageInfoPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 33, 17)
	info, err := ReadImageInfo(path)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Width: 33, Height: 17, Format: "png", MimeType: "image/png"}, info)
}

func TestDecodeImageInfoFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 12, 7))

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, src, nil))
	info, err := DecodeImageInfo(&jpg)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.MimeType)
	assert.Equal(t, 12, info.Width)
	assert.Equal(t, 7, info.Height)

	var g bytes.Buffer
	require.NoError(t, gif.Encode(&g, src, nil))
	info, err = DecodeImageInfo(&g)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", info.MimeType)
}

func TestReadImageInfoRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err := ReadImageInfo(txt)
	require.Error(t, err)

	_, err = ReadImageInfo(filepath.Join(dir, "missing.png"))
	require.Error(t, err)

	_, _, err = loadImage(dir)
	require.Error(t, err)
}

func TestMediaExtensions(t *testing.T) {
	assert.Equal(t, "png", extensionForMime("image/png"))
	assert.Equal(t, "jpeg", extensionForMime("image/jpeg"))
	assert.Equal(t, "bin", extensionForMime("application/octet-stream"))
	assert.Equal(t, "image/jpeg", guessMimeFromPath("X.JPG"))
	assert.Equal(t, "image/x-emf", guessMimeFromPath("ppt/media/image3.emf"))
}

func TestMeasurements(t *testing.T) {
	assert.Equal(t, int64(914400), Inch(1))
	assert.Equal(t, int64(12700), Point(1))
	assert.Equal(t, int64(360000), Centimeter(1))
	assert.Equal(t, int64(9525), Pixel(1))
	assert.Equal(t, 640, EMUToPixel(Pixel(640)))
	assert.InDelta(t, 10.0, EMUToInch(9144000), 1e-9)
}
