package pptx

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Shape is the interface that all shapes implement.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypePlaceholder ShapeType = iota
	ShapeTypePicture
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypePlaceholder:
		return "placeholder"
	case ShapeTypePicture:
		return "picture"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// BaseShape contains common shape properties.
type BaseShape struct {
	name        string
	description string
	offsetX     int64 // in EMU
	offsetY     int64 // in EMU
	width       int64 // in EMU
	height      int64 // in EMU

	// positioned reports whether the shape carries its own transform.
	// Placeholders cloned from a layout start unpositioned and inherit.
	positioned bool
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

// SetPosition sets the offset and marks the shape as positioned.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	b.positioned = true
	return b
}

// SetSize sets the extents and marks the shape as positioned.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	b.positioned = true
	return b
}

// IsPositioned reports whether the shape has its own transform.
func (b *BaseShape) IsPositioned() bool { return b.positioned }

func (b *BaseShape) GetDescription() string  { return b.description }

// PlaceholderType represents the type of placeholder.
type PlaceholderType string

const (
	PlaceholderTitle    PlaceholderType = "title"
	PlaceholderCtrTitle PlaceholderType = "ctrTitle"
	PlaceholderSubTitle PlaceholderType = "subTitle"
	PlaceholderBody     PlaceholderType = "body"
	PlaceholderObject   PlaceholderType = "obj"
	PlaceholderPicture  PlaceholderType = "pic"
	PlaceholderDate     PlaceholderType = "dt"
	PlaceholderFooter   PlaceholderType = "ftr"
	PlaceholderSlideNum PlaceholderType = "sldNum"
)

// family groups placeholder types that share master geometry.
func (t PlaceholderType) family() PlaceholderType {
	switch t {
	case PlaceholderTitle, PlaceholderCtrTitle:
		return PlaceholderTitle
	case PlaceholderDate, PlaceholderFooter, PlaceholderSlideNum:
		return t
	}
	return PlaceholderBody
}

// isFooterLike reports whether the placeholder is a date, footer or slide number.
// These are never cloned onto new slides.
func (t PlaceholderType) isFooterLike() bool {
	return t == PlaceholderDate || t == PlaceholderFooter || t == PlaceholderSlideNum
}

// PlaceholderShape represents a placeholder shape on a slide (title, body, picture...).
type PlaceholderShape struct {
	BaseShape
	phType     PlaceholderType
	phIdx      int
	paragraphs []*Paragraph

	inherited *LayoutPlaceholder
	master    *SlideMaster
}

func (p *PlaceholderShape) GetType() ShapeType { return ShapeTypePlaceholder }

// NewPlaceholderShape creates a new placeholder shape.
func NewPlaceholderShape(phType PlaceholderType, idx int) *PlaceholderShape {
	return &PlaceholderShape{
		phType:     phType,
		phIdx:      idx,
		paragraphs: []*Paragraph{NewParagraph()},
	}
}

// GetPlaceholderType returns the placeholder type.
func (p *PlaceholderShape) GetPlaceholderType() PlaceholderType { return p.phType }

// GetPlaceholderIndex returns the placeholder index.
func (p *PlaceholderShape) GetPlaceholderIndex() int { return p.phIdx }

// GetOffsetX returns the own offset or the one inherited from the layout.
func (p *PlaceholderShape) GetOffsetX() int64 {
	x, _, _, _ := p.bounds()
	return x
}

// GetOffsetY returns the own offset or the one inherited from the layout.
func (p *PlaceholderShape) GetOffsetY() int64 {
	_, y, _, _ := p.bounds()
	return y
}

// GetWidth returns the own width or the one inherited from the layout.
func (p *PlaceholderShape) GetWidth() int64 {
	_, _, w, _ := p.bounds()
	return w
}

// GetHeight returns the own height or the one inherited from the layout.
func (p *PlaceholderShape) GetHeight() int64 {
	_, _, _, h := p.bounds()
	return h
}

func (p *PlaceholderShape) bounds() (x, y, w, h int64) {
	if p.positioned || p.inherited == nil {
		return p.offsetX, p.offsetY, p.width, p.height
	}
	return p.inherited.geometry(p.master)
}

// materialize copies the inherited geometry onto the shape so that a
// partial override (only a size, say) keeps the layout position.
func (p *PlaceholderShape) materialize() {
	if p.positioned || p.inherited == nil {
		return
	}
	p.offsetX, p.offsetY, p.width, p.height = p.inherited.geometry(p.master)
	p.positioned = true
}

// SetPosition overrides the inherited offset.
func (p *PlaceholderShape) SetPosition(x, y int64) *PlaceholderShape {
	p.materialize()
	p.BaseShape.SetPosition(x, y)
	return p
}

// SetSize overrides the inherited extents, keeping the inherited offset.
func (p *PlaceholderShape) SetSize(w, h int64) *PlaceholderShape {
	p.materialize()
	p.BaseShape.SetSize(w, h)
	return p
}

// SetText sets the placeholder text, replacing all existing content.
// Each line of text becomes its own paragraph.
func (p *PlaceholderShape) SetText(text string) {
	lines := strings.Split(text, "\n")
	p.paragraphs = make([]*Paragraph, 0, len(lines))
	for _, line := range lines {
		para := NewParagraph()
		if line != "" {
			para.CreateTextRun(line)
		}
		p.paragraphs = append(p.paragraphs, para)
	}
}

// GetText returns the placeholder text with paragraphs joined by newlines.
func (p *PlaceholderShape) GetText() string {
	parts := make([]string, 0, len(p.paragraphs))
	for _, para := range p.paragraphs {
		parts = append(parts, para.GetText())
	}
	return strings.Join(parts, "\n")
}

// GetParagraphs returns the placeholder paragraphs.
func (p *PlaceholderShape) GetParagraphs() []*Paragraph { return p.paragraphs }

// HasText reports whether any paragraph carries text.
func (p *PlaceholderShape) HasText() bool {
	for _, para := range p.paragraphs {
		if para.GetText() != "" {
			return true
		}
	}
	return false
}

// Remove removes this placeholder from the given slide.
// Returns true if the placeholder was found and removed.
func (p *PlaceholderShape) Remove(slide *Slide) bool {
	return slide.RemoveShape(p)
}

// InsertPicture replaces the placeholder on the slide with a picture that
// takes over the placeholder's index and current geometry. The image is
// read from path and must be a supported raster format.
func (p *PlaceholderShape) InsertPicture(slide *Slide, path string) (*PictureShape, error) {
	pic, err := NewPictureShapeFromFile(path)
	if err != nil {
		return nil, err
	}
	x, y, w, h := p.bounds()
	pic.name = p.name
	pic.SetPosition(x, y)
	pic.SetSize(w, h)
	pic.placeholder = &placeholderRef{phType: PlaceholderPicture, idx: p.phIdx}
	if p.phType != "" && p.phType != PlaceholderObject {
		pic.placeholder.phType = p.phType
	}
	if !slide.replaceShape(p, pic) {
		return nil, fmt.Errorf("placeholder idx=%d: %w", p.phIdx, ErrPlaceholderNotFound)
	}
	return pic, nil
}

// placeholderRef ties a picture to the layout placeholder it was inserted into.
type placeholderRef struct {
	phType PlaceholderType
	idx    int
}

// PictureShape represents a raster image on a slide.
type PictureShape struct {
	BaseShape
	data        []byte
	mimeType    string
	pixelWidth  int
	pixelHeight int
	placeholder *placeholderRef
}

func (d *PictureShape) GetType() ShapeType { return ShapeTypePicture }

// NewPictureShapeFromFile reads an image file and inspects its header.
// The shape starts at the origin with the image's native size.
func NewPictureShapeFromFile(path string) (*PictureShape, error) {
	data, info, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	pic := &PictureShape{
		data:        data,
		mimeType:    info.MimeType,
		pixelWidth:  info.Width,
		pixelHeight: info.Height,
	}
	pic.name = baseName(path)
	pic.description = filepath.Base(path)
	pic.SetSize(Pixel(info.Width), Pixel(info.Height))
	return pic, nil
}

// GetMimeType returns the image MIME type.
func (d *PictureShape) GetMimeType() string { return d.mimeType }

// GetPixelSize returns the native pixel dimensions read from the image header.
func (d *PictureShape) GetPixelSize() (width, height int) {
	return d.pixelWidth, d.pixelHeight
}

// IsPlaceholder reports whether the picture fills a layout placeholder.
func (d *PictureShape) IsPlaceholder() bool { return d.placeholder != nil }

// GetPlaceholderIndex returns the placeholder index, or -1 for free pictures.
func (d *PictureShape) GetPlaceholderIndex() int {
	if d.placeholder == nil {
		return -1
	}
	return d.placeholder.idx
}

// GetPlaceholderType returns the placeholder type, or "" for free pictures.
func (d *PictureShape) GetPlaceholderType() PlaceholderType {
	if d.placeholder == nil {
		return ""
	}
	return d.placeholder.phType
}

// Paragraph is a paragraph of text runs.
type Paragraph struct {
	runs []*TextRun
}

// NewParagraph creates an empty paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{runs: make([]*TextRun, 0)}
}

// CreateTextRun appends a text run to the paragraph.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{text: text}
	p.runs = append(p.runs, tr)
	return tr
}

// GetTextRuns returns the runs of the paragraph.
func (p *Paragraph) GetTextRuns() []*TextRun { return p.runs }

// GetText returns the concatenated text of the paragraph.
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// TextRun is a run of text. A nil font inherits everything from the layout.
type TextRun struct {
	text string
	font *Font
}

// GetText returns the run text.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the run text.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the run font, creating an inheriting one on first use.
func (tr *TextRun) GetFont() *Font {
	if tr.font == nil {
		tr.font = &Font{}
	}
	return tr.font
}

// Font holds run-level overrides. Zero values inherit from the layout.
type Font struct {
	Size   int // in points
	Bold   bool
	Italic bool
	Color  string // RRGGBB
}

// SetSize sets the font size in points.
func (f *Font) SetSize(size int) *Font { f.Size = size; return f }

// SetBold sets bold.
func (f *Font) SetBold(b bool) *Font { f.Bold = b; return f }

// SetItalic sets italic.
func (f *Font) SetItalic(i bool) *Font { f.Italic = i; return f }

// SetColor sets the RRGGBB color.
func (f *Font) SetColor(rgb string) *Font { f.Color = strings.TrimPrefix(rgb, "#"); return f }
