package pptx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlaceholderNotFound is returned when a slide has no placeholder with the requested index.
var ErrPlaceholderNotFound = errors.New("placeholder not found")

// Slide is a single slide. Its layout is fixed at creation.
type Slide struct {
	layout *SlideLayout
	shapes []Shape
}

func newSlide(layout *SlideLayout) *Slide {
	s := &Slide{layout: layout, shapes: make([]Shape, 0)}
	if layout == nil {
		return s
	}
	for _, lp := range layout.placeholders {
		if lp.Type.isFooterLike() {
			continue
		}
		ph := NewPlaceholderShape(lp.Type, lp.Idx)
		ph.name = lp.Name
		ph.inherited = lp
		ph.master = layout.master
		s.shapes = append(s.shapes, ph)
	}
	return s
}

// GetLayout returns the layout the slide was created from.
func (s *Slide) GetLayout() *SlideLayout { return s.layout }

// GetShapes returns the slide's shapes in z-order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetShapeCount returns the number of shapes on the slide.
func (s *Slide) GetShapeCount() int { return len(s.shapes) }

// Placeholders returns the text/object placeholders still present on the slide.
func (s *Slide) Placeholders() []*PlaceholderShape {
	var out []*PlaceholderShape
	for _, shape := range s.shapes {
		if ph, ok := shape.(*PlaceholderShape); ok {
			out = append(out, ph)
		}
	}
	return out
}

// Placeholder returns the placeholder with the given idx.
func (s *Slide) Placeholder(idx int) (*PlaceholderShape, error) {
	for _, ph := range s.Placeholders() {
		if ph.phIdx == idx {
			return ph, nil
		}
	}
	return nil, fmt.Errorf("idx=%d: %w", idx, ErrPlaceholderNotFound)
}

// Pictures returns the pictures on the slide, placeholder pictures included.
func (s *Slide) Pictures() []*PictureShape {
	var out []*PictureShape
	for _, shape := range s.shapes {
		if pic, ok := shape.(*PictureShape); ok {
			out = append(out, pic)
		}
	}
	return out
}

// AddShape appends a shape to the slide.
func (s *Slide) AddShape(shape Shape) {
	s.shapes = append(s.shapes, shape)
}

// AddPicture adds the image at path as a free picture at (x, y).
//
// When both width and height are zero the native size is used. When only
// one of them is given the other is scaled to keep the aspect ratio.
func (s *Slide) AddPicture(path string, x, y, width, height int64) (*PictureShape, error) {
	pic, err := NewPictureShapeFromFile(path)
	if err != nil {
		return nil, err
	}
	nativeW, nativeH := Pixel(pic.pixelWidth), Pixel(pic.pixelHeight)
	switch {
	case width == 0 && height == 0:
		width, height = nativeW, nativeH
	case height == 0:
		height = scaleEMU(width, pic.pixelHeight, pic.pixelWidth)
	case width == 0:
		width = scaleEMU(height, pic.pixelWidth, pic.pixelHeight)
	}
	pic.SetPosition(x, y)
	pic.SetSize(width, height)
	s.shapes = append(s.shapes, pic)
	return pic, nil
}

// RemoveShape removes the shape from the slide's shape tree.
// Returns true if the shape was found.
func (s *Slide) RemoveShape(target Shape) bool {
	for i, shape := range s.shapes {
		if shape == target {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Slide) replaceShape(old, repl Shape) bool {
	for i, shape := range s.shapes {
		if shape == old {
			s.shapes[i] = repl
			return true
		}
	}
	return false
}

// ExtractText returns the text of all placeholders on the slide.
func (s *Slide) ExtractText() string {
	var parts []string
	for _, ph := range s.Placeholders() {
		if t := ph.GetText(); strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
