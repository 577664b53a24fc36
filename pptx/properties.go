package pptx

import "time"

// DocumentProperties holds the standard core document properties.
type DocumentProperties struct {
	Creator        string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
	Title          string
	Description    string
	Subject        string
	Keywords       string
	Category       string
	Company        string
	Revision       string
}

// NewDocumentProperties creates new document properties with defaults.
func NewDocumentProperties() *DocumentProperties {
	now := time.Now()
	return &DocumentProperties{
		Creator:        "AutomatedPowerPoint",
		LastModifiedBy: "AutomatedPowerPoint",
		Created:        now,
		Modified:       now,
		Revision:       "1",
	}
}

// PresentationProperties holds presentation-level properties.
type PresentationProperties struct {
	thumbnailData []byte
}

// NewPresentationProperties creates new presentation properties with defaults.
func NewPresentationProperties() *PresentationProperties {
	return &PresentationProperties{}
}

// SetThumbnailData sets the JPEG thumbnail stored as docProps/thumbnail.jpeg.
func (pp *PresentationProperties) SetThumbnailData(data []byte) {
	pp.thumbnailData = data
}

// GetThumbnailData returns the thumbnail data.
func (pp *PresentationProperties) GetThumbnailData() []byte {
	return pp.thumbnailData
}

// DocumentLayout represents the slide dimensions.
type DocumentLayout struct {
	CX   int64 // width in EMU (English Metric Units)
	CY   int64 // height in EMU
	Name string
}

// Standard layout names.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutCustom      = "custom"
)

// NewDocumentLayout creates a default 4:3 layout.
func NewDocumentLayout() *DocumentLayout {
	return &DocumentLayout{
		CX:   9144000, // 10 inches
		CY:   6858000, // 7.5 inches
		Name: LayoutScreen4x3,
	}
}

// SetLayout sets a predefined layout.
func (dl *DocumentLayout) SetLayout(name string) {
	dl.Name = name
	switch name {
	case LayoutScreen4x3:
		dl.CX = 9144000
		dl.CY = 6858000
	case LayoutScreen16x9:
		dl.CX = 12192000
		dl.CY = 6858000
	case LayoutScreen16x10:
		dl.CX = 10972800
		dl.CY = 6858000
	}
}

// SetCustomLayout sets custom dimensions in EMU. Both values must be positive.
func (dl *DocumentLayout) SetCustomLayout(cx, cy int64) {
	if cx <= 0 {
		cx = 9144000
	}
	if cy <= 0 {
		cy = 6858000
	}
	dl.CX = cx
	dl.CY = cy
	dl.Name = LayoutCustom
}

// SlideMaster represents a slide master and its ordered layouts.
type SlideMaster struct {
	Name         string
	SlideLayouts []*SlideLayout

	partName     string
	placeholders []*LayoutPlaceholder
}

// SlideLayout represents a slide layout. Layouts are read-only: they come
// from the built-in layout set or from a template.
type SlideLayout struct {
	Name string
	Type string

	index        int
	partName     string
	master       *SlideMaster
	placeholders []*LayoutPlaceholder
}

// GetIndex returns the layout's ordinal position within its master.
func (l *SlideLayout) GetIndex() int { return l.index }

// GetPlaceholders returns the placeholders defined on the layout.
func (l *SlideLayout) GetPlaceholders() []*LayoutPlaceholder { return l.placeholders }

// LayoutPlaceholder is a placeholder region defined on a layout or master.
type LayoutPlaceholder struct {
	Type    PlaceholderType
	Idx     int
	Name    string
	OffsetX int64
	OffsetY int64
	Width   int64
	Height  int64

	// hasXfrm is false when the layout inherits the position from the master.
	hasXfrm bool
}

// geometry returns the placeholder bounds, falling back to the master
// placeholder of the same type when the layout does not position it.
func (lp *LayoutPlaceholder) geometry(master *SlideMaster) (x, y, w, h int64) {
	if lp.hasXfrm || master == nil {
		return lp.OffsetX, lp.OffsetY, lp.Width, lp.Height
	}
	for _, mp := range master.placeholders {
		if mp.Type.family() == lp.Type.family() {
			return mp.OffsetX, mp.OffsetY, mp.Width, mp.Height
		}
	}
	return lp.OffsetX, lp.OffsetY, lp.Width, lp.Height
}
