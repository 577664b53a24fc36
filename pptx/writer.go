package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer is the interface for presentation writers.
type Writer interface {
	Save(path string) error
	WriteTo(w io.Writer) error
}

// WriterType represents the output format.
type WriterType string

const (
	WriterPowerPoint2007 WriterType = "PowerPoint2007"
)

// NewWriter creates a writer for the given format.
func NewWriter(p *Presentation, format WriterType) (Writer, error) {
	switch format {
	case WriterPowerPoint2007:
		return &PPTXWriter{presentation: p}, nil
	default:
		return nil, fmt.Errorf("unsupported writer format: %s", format)
	}
}

// PPTXWriter writes presentations in PPTX format.
type PPTXWriter struct {
	presentation *Presentation

	// media maps every picture to its part name, assigned per WriteTo.
	media      map[*PictureShape]string
	mediaOrder []*PictureShape
}

// Save writes the presentation to a file. On failure the partial file is removed.
func (w *PPTXWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the presentation to a writer.
func (w *PPTXWriter) WriteTo(writer io.Writer) error {
	if w.presentation == nil {
		return fmt.Errorf("presentation is nil")
	}
	if len(w.presentation.slideMasters) == 0 {
		return fmt.Errorf("presentation has no slide master")
	}

	w.planMedia()
	zw := zip.NewWriter(writer)

	steps := []func(*zip.Writer) error{
		w.writeContentTypes,
		w.writeRootRels,
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writeThumbnail,
		w.writePresentation,
		w.writePresentationRels,
		w.writePresProps,
		w.writeViewProps,
		w.writeTableStyles,
		w.writeMasterParts,
	}
	for _, step := range steps {
		if err := step(zw); err != nil {
			return err
		}
	}

	for i, slide := range w.presentation.slides {
		if err := w.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(zw, slide, i+1); err != nil {
			return err
		}
	}

	if err := w.writeMedia(zw); err != nil {
		return err
	}

	return zw.Close()
}

// planMedia assigns a media part name to every picture in slide order,
// skipping names already taken by template parts.
func (w *PPTXWriter) planMedia() {
	w.media = make(map[*PictureShape]string)
	w.mediaOrder = w.mediaOrder[:0]
	n := 1
	for _, slide := range w.presentation.slides {
		for _, pic := range slide.Pictures() {
			ext := extensionForMime(pic.mimeType)
			var name string
			for {
				name = fmt.Sprintf("ppt/media/image%d.%s", n, ext)
				n++
				if !w.presentation.template.has(name) {
					break
				}
			}
			w.media[pic] = name
			w.mediaOrder = append(w.mediaOrder, pic)
		}
	}
}

func (w *PPTXWriter) writeMedia(zw *zip.Writer) error {
	for _, pic := range w.mediaOrder {
		if len(pic.data) == 0 {
			return fmt.Errorf("picture %q has no image data", pic.name)
		}
		fw, err := zw.Create(w.media[pic])
		if err != nil {
			return fmt.Errorf("failed to create %s in zip: %w", w.media[pic], err)
		}
		if _, err := fw.Write(pic.data); err != nil {
			return err
		}
	}
	return nil
}
