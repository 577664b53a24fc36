// Package deck builds the slides of a figure report on top of the pptx
// library: it resolves layouts by their conventional names and fills or
// removes their placeholders.
package deck

import (
	"errors"
	"fmt"

	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

var (
	// ErrUnknownLayout is returned for a layout name outside the conventional set.
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrLayoutMissing is returned when the template has no layout at the ordinal.
	ErrLayoutMissing = errors.New("layout missing from template")
)

// Layout is one of the nine layouts every PowerPoint theme ships in the
// same order. Its value is the ordinal in the slide master.
type Layout int

const (
	LayoutTitle Layout = iota
	LayoutTitleAndContent
	LayoutSectionHeader
	LayoutTwoContent
	LayoutComparison
	LayoutTitleOnly
	LayoutBlank
	LayoutContentWithCaption
	LayoutPictureWithCaption
)

var layoutNames = [...]string{
	LayoutTitle:              "Title",
	LayoutTitleAndContent:    "Title and Content",
	LayoutSectionHeader:      "Section Header",
	LayoutTwoContent:         "Two Content",
	LayoutComparison:         "Comparison",
	LayoutTitleOnly:          "Title Only",
	LayoutBlank:              "Blank",
	LayoutContentWithCaption: "Content with Caption",
	LayoutPictureWithCaption: "Picture with Caption",
}

// Layouts returns every layout in ordinal order.
func Layouts() []Layout {
	out := make([]Layout, len(layoutNames))
	for i := range layoutNames {
		out[i] = Layout(i)
	}
	return out
}

// ParseLayout maps a layout name to its Layout.
func ParseLayout(name string) (Layout, error) {
	for i, n := range layoutNames {
		if n == name {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("layout %q: %w", name, ErrUnknownLayout)
}

func (l Layout) String() string {
	if l < 0 || int(l) >= len(layoutNames) {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

// Ordinal returns the layout's position in the slide master.
func (l Layout) Ordinal() int { return int(l) }

// Resolve returns the template layout at l's ordinal.
func (l Layout) Resolve(p *pptx.Presentation) (*pptx.SlideLayout, error) {
	if l < 0 || int(l) >= len(layoutNames) {
		return nil, fmt.Errorf("%s: %w", l, ErrUnknownLayout)
	}
	layouts := p.GetSlideLayouts()
	if l.Ordinal() >= len(layouts) {
		return nil, fmt.Errorf("%s (ordinal %d, template has %d): %w", l, l.Ordinal(), len(layouts), ErrLayoutMissing)
	}
	return layouts[l.Ordinal()], nil
}

// Resolve looks a layout up by name and returns the matching template layout.
func Resolve(p *pptx.Presentation, name string) (*pptx.SlideLayout, error) {
	l, err := ParseLayout(name)
	if err != nil {
		return nil, err
	}
	return l.Resolve(p)
}
