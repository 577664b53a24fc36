package pptx

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// RenderOptions configures slide-to-image rendering.
type RenderOptions struct {
	// Width is the output image width in pixels. Height follows the slide
	// aspect ratio. Default: 960
	Width int
	// Format is the output image format (PNG or JPEG).
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
	// DPI is the rendering DPI for font sizing. Default: 96.
	DPI float64
	// FontFile is an optional TrueType/OpenType font used for text.
	// The built-in bitmap face is used when empty or unreadable.
	FontFile string
	// Outline draws the bounds of every shape.
	Outline bool
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Width:       960,
		Format:      ImageFormatPNG,
		JPEGQuality: 90,
		DPI:         96,
	}
}

// SlideToImage renders a single slide to an image.
func (p *Presentation) SlideToImage(slideIndex int, opts *RenderOptions) (image.Image, error) {
	if slideIndex < 0 || slideIndex >= len(p.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", slideIndex, len(p.slides)-1)
	}
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	width := opts.Width
	if width <= 0 {
		width = 960
	}
	layout := p.layout
	if layout == nil {
		layout = NewDocumentLayout()
	}

	slideW := float64(layout.CX)
	slideH := float64(layout.CY)
	imgH := int(float64(width) * slideH / slideW)
	if imgH <= 0 {
		imgH = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, imgH))
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)

	r := &renderer{
		img:     img,
		scaleX:  float64(width) / slideW,
		scaleY:  float64(imgH) / slideH,
		dpi:     opts.DPI,
		fonts:   loadFontSource(opts.FontFile),
		outline: opts.Outline,
	}
	if r.dpi <= 0 {
		r.dpi = 96
	}
	defer r.fonts.close()

	for _, shape := range p.slides[slideIndex].shapes {
		r.renderShape(shape)
	}
	return img, nil
}

// SaveSlideAsImage renders a slide and saves it to a file.
func (p *Presentation) SaveSlideAsImage(slideIndex int, path string, opts *RenderOptions) error {
	img, err := p.SlideToImage(slideIndex, opts)
	if err != nil {
		return err
	}
	return saveImage(img, path, opts)
}

// SaveSlidesAsImages renders all slides and saves them to files.
// The pattern should contain %d for the slide number (1-based), e.g. "slide_%d.png".
// It returns the paths written.
func (p *Presentation) SaveSlidesAsImages(pattern string, opts *RenderOptions) ([]string, error) {
	paths := make([]string, 0, len(p.slides))
	for i := range p.slides {
		path := fmt.Sprintf(pattern, i+1)
		if err := p.SaveSlideAsImage(i, path, opts); err != nil {
			return paths, fmt.Errorf("slide %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderThumbnail renders the first slide as a JPEG of the given width and
// returns its bytes, suitable for PresentationProperties.SetThumbnailData.
func (p *Presentation) RenderThumbnail(width int) ([]byte, error) {
	if len(p.slides) == 0 {
		return nil, fmt.Errorf("presentation has no slides")
	}
	opts := DefaultRenderOptions()
	opts.Width = width
	img, err := p.SlideToImage(0, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func saveImage(img image.Image, path string, opts *RenderOptions) error {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	switch opts.Format {
	case ImageFormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(f, img)
	}
}

// --- fonts ---

// fontSource hands out faces at a given pixel size from an optional
// OpenType font, falling back to basicfont.
type fontSource struct {
	mu    sync.Mutex
	otf   *opentype.Font
	faces map[float64]font.Face
}

var fontFileCache sync.Map // path -> *opentype.Font

func loadFontSource(path string) *fontSource {
	fs := &fontSource{faces: make(map[float64]font.Face)}
	if path == "" {
		return fs
	}
	if cached, ok := fontFileCache.Load(path); ok {
		fs.otf = cached.(*opentype.Font)
		return fs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fs
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return fs
	}
	fontFileCache.Store(path, otf)
	fs.otf = otf
	return fs
}

func (fs *fontSource) face(sizePx float64) font.Face {
	if fs.otf == nil || sizePx < 1 {
		return basicfont.Face7x13
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.faces[sizePx]; ok {
		return f
	}
	f, err := opentype.NewFace(fs.otf, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	fs.faces[sizePx] = f
	return f
}

func (fs *fontSource) close() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, f := range fs.faces {
		f.Close()
	}
	fs.faces = nil
}

// --- renderer ---

type renderer struct {
	img     *image.RGBA
	scaleX  float64
	scaleY  float64
	dpi     float64
	fonts   *fontSource
	outline bool
}

var (
	colorBlack   = color.RGBA{A: 255}
	colorOutline = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	colorMissing = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

func (r *renderer) renderShape(shape Shape) {
	switch s := shape.(type) {
	case *PlaceholderShape:
		r.renderPlaceholder(s)
	case *PictureShape:
		r.renderPicture(s)
	}
	if r.outline {
		r.drawRect(r.shapeRect(shape), colorOutline, 1)
	}
}

func (r *renderer) emuToPixelX(emu int64) int {
	return int(float64(emu) * r.scaleX)
}

func (r *renderer) emuToPixelY(emu int64) int {
	return int(float64(emu) * r.scaleY)
}

func (r *renderer) shapeRect(s Shape) image.Rectangle {
	x := r.emuToPixelX(s.GetOffsetX())
	y := r.emuToPixelY(s.GetOffsetY())
	return image.Rect(x, y, x+r.emuToPixelX(s.GetWidth()), y+r.emuToPixelY(s.GetHeight()))
}

func (r *renderer) renderPlaceholder(s *PlaceholderShape) {
	if !s.HasText() {
		return
	}
	rect := r.shapeRect(s)
	defaultPt := 18
	center := false
	switch s.phType {
	case PlaceholderTitle, PlaceholderCtrTitle:
		defaultPt, center = 44, true
	case PlaceholderSubTitle:
		defaultPt, center = 32, true
	}
	r.drawParagraphs(s.paragraphs, rect, defaultPt, center)
}

func (r *renderer) renderPicture(s *PictureShape) {
	rect := r.shapeRect(s)
	if rect.Empty() || len(s.data) == 0 {
		return
	}
	src, _, err := image.Decode(bytes.NewReader(s.data))
	if err != nil {
		r.drawRect(rect, colorMissing, 1)
		return
	}
	xdraw.ApproxBiLinear.Scale(r.img, rect, src, src.Bounds(), xdraw.Over, nil)
}

// --- Drawing primitives ---

func (r *renderer) drawRect(rect image.Rectangle, c color.RGBA, width int) {
	for i := 0; i < width; i++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.setPixel(x, rect.Min.Y+i, c)
			r.setPixel(x, rect.Max.Y-1-i, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			r.setPixel(rect.Min.X+i, y, c)
			r.setPixel(rect.Max.X-1-i, y, c)
		}
	}
}

func (r *renderer) setPixel(x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(r.img.Bounds()) {
		r.img.SetRGBA(x, y, c)
	}
}

// --- Text rendering ---

type textRun struct {
	text  string
	face  font.Face
	color color.RGBA
}

type textLine struct {
	runs   []textRun
	width  int
	height int
}

func (r *renderer) runFace(f *Font, defaultPt int) font.Face {
	sizePt := defaultPt
	if f != nil && f.Size > 0 {
		sizePt = f.Size
	}
	// points -> EMU -> output pixels
	return r.fonts.face(float64(sizePt) * emuPerPoint * r.scaleY * r.dpi / 96)
}

func runColor(f *Font) color.RGBA {
	if f == nil || len(f.Color) != 6 {
		return colorBlack
	}
	var rgb [3]uint8
	if _, err := fmt.Sscanf(strings.ToUpper(f.Color), "%02X%02X%02X", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return colorBlack
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func buildTextLine(runs []textRun) textLine {
	totalW, maxH := 0, 0
	for _, run := range runs {
		totalW += font.MeasureString(run.face, run.text).Ceil()
		if h := run.face.Metrics().Height.Ceil(); h > maxH {
			maxH = h
		}
	}
	if maxH <= 0 {
		maxH = 14
	}
	return textLine{runs: runs, width: totalW, height: maxH}
}

func (r *renderer) drawParagraphs(paragraphs []*Paragraph, rect image.Rectangle, defaultPt int, center bool) {
	var lines []textLine
	for _, para := range paragraphs {
		var runs []textRun
		for _, tr := range para.runs {
			runs = append(runs, textRun{text: tr.text, face: r.runFace(tr.font, defaultPt), color: runColor(tr.font)})
		}
		if len(runs) == 0 {
			lines = append(lines, textLine{height: r.runFace(nil, defaultPt).Metrics().Height.Ceil()})
			continue
		}
		line := buildTextLine(runs)
		if line.width <= rect.Dx() || rect.Dx() <= 0 {
			lines = append(lines, line)
			continue
		}
		lines = append(lines, wrapRunLine(line, rect.Dx())...)
	}

	curY := rect.Min.Y
	for _, line := range lines {
		curY += line.height
		if curY > rect.Max.Y {
			break
		}
		drawX := rect.Min.X
		if center {
			drawX += (rect.Dx() - line.width) / 2
		}
		for _, run := range line.runs {
			d := &font.Drawer{
				Dst:  r.img,
				Src:  image.NewUniform(run.color),
				Face: run.face,
				Dot:  fixed.P(drawX, curY),
			}
			d.DrawString(run.text)
			drawX += font.MeasureString(run.face, run.text).Ceil()
		}
	}
}

// wrapRunLine wraps a textLine into multiple lines that fit within maxWidth.
func wrapRunLine(line textLine, maxWidth int) []textLine {
	var words []textRun
	for _, run := range line.runs {
		for i, w := range strings.Fields(run.text) {
			if i > 0 {
				w = " " + w
			}
			words = append(words, textRun{text: w, face: run.face, color: run.color})
		}
	}
	if len(words) == 0 {
		return []textLine{line}
	}

	var result []textLine
	var cur []textRun
	curWidth := 0
	for _, w := range words {
		ww := font.MeasureString(w.face, w.text).Ceil()
		if curWidth+ww > maxWidth && curWidth > 0 {
			result = append(result, buildTextLine(cur))
			cur, curWidth = nil, 0
			w.text = strings.TrimLeft(w.text, " ")
			ww = font.MeasureString(w.face, w.text).Ceil()
		}
		cur = append(cur, w)
		curWidth += ww
	}
	if len(cur) > 0 {
		result = append(result, buildTextLine(cur))
	}
	return result
}
