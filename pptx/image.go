package pptx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxImageFileSize bounds a single embedded image (50 MB).
const maxImageFileSize = 50 << 20

// ImageInfo describes an image as read from its header.
type ImageInfo struct {
	Width    int
	Height   int
	Format   string // as registered with the image package: png, jpeg, gif, bmp, tiff, webp
	MimeType string
}

// ReadImageInfo reads the header of the image at path. Only the header is
// decoded; the pixel data is not.
func ReadImageInfo(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	info, err := DecodeImageInfo(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// DecodeImageInfo reads an image header from r.
func DecodeImageInfo(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return ImageInfo{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   format,
		MimeType: mimeForFormat(format),
	}, nil
}

// loadImage reads an image file fully and inspects its header.
func loadImage(path string) ([]byte, ImageInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, ImageInfo{}, fmt.Errorf("failed to stat image %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, ImageInfo{}, fmt.Errorf("image %s is a directory", path)
	}
	if st.Size() > maxImageFileSize {
		return nil, ImageInfo{}, fmt.Errorf("image file %s too large: %d bytes (max %d)", path, st.Size(), maxImageFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ImageInfo{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	info, err := DecodeImageInfo(bytes.NewReader(data))
	if err != nil {
		return nil, ImageInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, info, nil
}

func mimeForFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// extensionForMime returns the part-name extension for an image MIME type.
func extensionForMime(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tiff"
	case "image/webp":
		return "webp"
	}
	return "bin"
}

// guessMimeFromPath maps a file extension to an image MIME type.
func guessMimeFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	case "emf":
		return "image/x-emf"
	case "wmf":
		return "image/x-wmf"
	case "svg":
		return "image/svg+xml"
	}
	return "application/octet-stream"
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
