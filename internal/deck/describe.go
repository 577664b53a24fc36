package deck

import (
	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

// ShapeInfo summarizes one shape of a slide.
type ShapeInfo struct {
	Kind   string // "placeholder" or "picture"
	Name   string
	Idx    int // -1 for shapes that are not placeholders
	Type   string
	Text   string
	X, Y   int64
	Width  int64
	Height int64
}

// DescribeSlide lists the slide's shapes in z-order.
func DescribeSlide(slide *pptx.Slide) []ShapeInfo {
	var out []ShapeInfo
	for _, shape := range slide.GetShapes() {
		info := ShapeInfo{
			Kind:   shape.GetType().String(),
			Name:   shape.GetName(),
			Idx:    -1,
			X:      shape.GetOffsetX(),
			Y:      shape.GetOffsetY(),
			Width:  shape.GetWidth(),
			Height: shape.GetHeight(),
		}
		switch s := shape.(type) {
		case *pptx.PlaceholderShape:
			info.Idx = s.GetPlaceholderIndex()
			info.Type = string(s.GetPlaceholderType())
			info.Text = s.GetText()
		case *pptx.PictureShape:
			info.Idx = s.GetPlaceholderIndex()
			info.Type = string(s.GetPlaceholderType())
			info.Text = s.GetDescription()
		}
		out = append(out, info)
	}
	return out
}

// LayoutInfo summarizes a template layout.
type LayoutInfo struct {
	Ordinal      int
	Name         string
	Conventional string // conventional name at this ordinal, if any
	Placeholders []ShapeInfo
}

// DescribeLayouts lists the presentation's layouts with their placeholders.
func DescribeLayouts(p *pptx.Presentation) []LayoutInfo {
	var out []LayoutInfo
	for _, l := range p.GetSlideLayouts() {
		info := LayoutInfo{Ordinal: l.GetIndex(), Name: l.Name}
		if l.GetIndex() < len(layoutNames) {
			info.Conventional = Layout(l.GetIndex()).String()
		}
		for _, lp := range l.GetPlaceholders() {
			info.Placeholders = append(info.Placeholders, ShapeInfo{
				Kind:   "placeholder",
				Name:   lp.Name,
				Idx:    lp.Idx,
				Type:   string(lp.Type),
				X:      lp.OffsetX,
				Y:      lp.OffsetY,
				Width:  lp.Width,
				Height: lp.Height,
			})
		}
		out = append(out, info)
	}
	return out
}
