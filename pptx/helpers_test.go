package pptx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTrip writes the presentation to a buffer and reads it back.
func roundTrip(t *testing.T, p *Presentation) *Presentation {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.WriteTo(&buf), "WriteTo")
	data := buf.Bytes()
	pres, err := ReadFrom(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err, "ReadFrom")
	return pres
}

// roundTripFile saves to a temp file and re-opens it.
func roundTripFile(t *testing.T, p *Presentation) *Presentation {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pptx")
	require.NoError(t, p.Save(path), "Save")
	pres, err := Open(path)
	require.NoError(t, err, "Open")
	return pres
}

// writePNG writes a solid w x h PNG into dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func layoutNames(p *Presentation) []string {
	var names []string
	for _, l := range p.GetSlideLayouts() {
		names = append(names, l.Name)
	}
	return names
}

func mustLayout(t *testing.T, p *Presentation, name string) *SlideLayout {
	t.Helper()
	for _, l := range p.GetSlideLayouts() {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("layout %q not found", name)
	return nil
}
