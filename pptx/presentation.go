// Package pptx reads and writes PowerPoint presentation files (.pptx)
// following the Office Open XML (OOXML) standard.
//
// A Presentation is created either on the built-in Office layout set (New)
// or from an existing template (OpenTemplate). Slides are always created
// from one of the presentation's layouts and start with that layout's
// placeholders; content is placed by filling or removing placeholders and
// by adding pictures.
package pptx

import (
	"errors"
	"fmt"
	"strings"
)

// Presentation represents an in-memory PowerPoint presentation.
type Presentation struct {
	properties             *DocumentProperties
	presentationProperties *PresentationProperties
	slides                 []*Slide
	slideMasters           []*SlideMaster
	layout                 *DocumentLayout

	// template holds the verbatim master/layout/theme parts when the
	// presentation was opened from a file. Nil means the built-in set.
	template *templatePackage
}

// New creates an empty Presentation on the built-in Office layout set.
func New() *Presentation {
	return &Presentation{
		properties:             NewDocumentProperties(),
		presentationProperties: NewPresentationProperties(),
		slides:                 make([]*Slide, 0),
		slideMasters:           []*SlideMaster{defaultSlideMaster()},
		layout:                 NewDocumentLayout(),
	}
}

// GetDocumentProperties returns the document properties.
func (p *Presentation) GetDocumentProperties() *DocumentProperties {
	return p.properties
}

// GetPresentationProperties returns the presentation properties.
func (p *Presentation) GetPresentationProperties() *PresentationProperties {
	return p.presentationProperties
}

// GetLayout returns the document layout (slide size).
func (p *Presentation) GetLayout() *DocumentLayout {
	return p.layout
}

// SetLayout sets the document layout.
func (p *Presentation) SetLayout(layout *DocumentLayout) {
	p.layout = layout
}

// GetSlideMasters returns all slide masters.
func (p *Presentation) GetSlideMasters() []*SlideMaster {
	return p.slideMasters
}

// GetSlideLayouts returns the layouts of the first slide master in order.
func (p *Presentation) GetSlideLayouts() []*SlideLayout {
	if len(p.slideMasters) == 0 {
		return nil
	}
	return p.slideMasters[0].SlideLayouts
}

// GetSlideLayout returns the layout at the given ordinal of the first master.
func (p *Presentation) GetSlideLayout(index int) (*SlideLayout, error) {
	layouts := p.GetSlideLayouts()
	if index < 0 || index >= len(layouts) {
		return nil, fmt.Errorf("layout index %d out of range (have %d layouts)", index, len(layouts))
	}
	return layouts[index], nil
}

// AddSlide creates a new slide from the layout and appends it.
// The slide receives a copy of every layout placeholder except date,
// footer and slide number.
func (p *Presentation) AddSlide(layout *SlideLayout) (*Slide, error) {
	if layout == nil {
		return nil, errors.New("layout is nil")
	}
	if !p.ownsLayout(layout) {
		return nil, fmt.Errorf("layout %q does not belong to this presentation", layout.Name)
	}
	slide := newSlide(layout)
	p.slides = append(p.slides, slide)
	return slide, nil
}

func (p *Presentation) ownsLayout(layout *SlideLayout) bool {
	for _, sm := range p.slideMasters {
		for _, l := range sm.SlideLayouts {
			if l == layout {
				return true
			}
		}
	}
	return false
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, errors.New("slide index out of range")
	}
	return p.slides[index], nil
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// RemoveSlideByIndex removes a slide by index.
func (p *Presentation) RemoveSlideByIndex(index int) error {
	if index < 0 || index >= len(p.slides) {
		return errors.New("slide index out of range")
	}
	p.slides = append(p.slides[:index], p.slides[index+1:]...)
	return nil
}

// ExtractText returns all text content from the presentation as a single string.
func (p *Presentation) ExtractText() string {
	var parts []string
	for _, slide := range p.slides {
		if text := slide.ExtractText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
