package deck

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

// ErrEmptyTitle is returned when a title slide is requested without a title.
var ErrEmptyTitle = errors.New("title slide requires a title")

// Placeholder indices used by the conventional layouts.
const (
	titleIdx    = 0
	subtitleIdx = 1
	pictureIdx  = 1
	captionIdx  = 2
)

// thumbnailWidth is the pixel width of docProps/thumbnail.jpeg.
const thumbnailWidth = 256

// Option configures a Deck.
type Option func(*Deck)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Deck) { d.logger = l }
}

// WithDebugShapes logs the shapes of every slide as it is created.
func WithDebugShapes(on bool) Option {
	return func(d *Deck) { d.debugShapes = on }
}

// WithThumbnail embeds a rendering of the first slide on save.
func WithThumbnail(on bool) Option {
	return func(d *Deck) { d.thumbnail = on }
}

// WithTitle sets the document title property.
func WithTitle(title string) Option {
	return func(d *Deck) { d.pres.GetDocumentProperties().Title = title }
}

// Deck is a presentation under construction.
type Deck struct {
	pres        *pptx.Presentation
	logger      *zap.Logger
	debugShapes bool
	thumbnail   bool
}

// New starts an empty deck. A nil template uses the built-in layout set;
// otherwise template holds the bytes of a .pptx whose layouts are used.
func New(template []byte, opts ...Option) (*Deck, error) {
	var pres *pptx.Presentation
	if len(template) == 0 {
		pres = pptx.New()
	} else {
		var err error
		pres, err = pptx.OpenTemplateFrom(bytes.NewReader(template), int64(len(template)))
		if err != nil {
			return nil, err
		}
	}
	d := &Deck{pres: pres, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Presentation returns the underlying presentation.
func (d *Deck) Presentation() *pptx.Presentation { return d.pres }

// SlideCount returns the number of slides added so far.
func (d *Deck) SlideCount() int { return d.pres.GetSlideCount() }

// addSlide appends a slide of layout l and runs fill on it. A slide whose
// fill fails is taken out of the deck again.
func (d *Deck) addSlide(l Layout, fill func(*pptx.Slide) error) (*pptx.Slide, error) {
	layout, err := l.Resolve(d.pres)
	if err != nil {
		return nil, err
	}
	slide, err := d.pres.AddSlide(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s slide: %w", l, err)
	}
	if err := fill(slide); err != nil {
		if rmErr := d.pres.RemoveSlideByIndex(d.pres.GetSlideCount() - 1); rmErr != nil {
			return nil, errors.Join(err, rmErr)
		}
		return nil, err
	}
	return slide, nil
}

// AddTitleSlide adds a Title slide. An empty subtitle removes its placeholder.
func (d *Deck) AddTitleSlide(title, subtitle string) (*pptx.Slide, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	slide, err := d.addSlide(LayoutTitle, func(slide *pptx.Slide) error {
		if err := setOrRemove(slide, titleIdx, title); err != nil {
			return err
		}
		return setOrRemove(slide, subtitleIdx, subtitle)
	})
	if err != nil {
		return nil, err
	}
	d.logSlide(slide, zap.String("title", title))
	return slide, nil
}

// AddPictureWithCaptionSlide adds a Picture with Caption slide. The picture
// placeholder is grown to the image's native pixel size before the image is
// inserted, so the figure is never scaled. Empty title or caption remove
// their placeholders.
func (d *Deck) AddPictureWithCaptionSlide(picture, title, caption string) (*pptx.Slide, error) {
	info, err := pptx.ReadImageInfo(picture)
	if err != nil {
		return nil, err
	}
	slide, err := d.addSlide(LayoutPictureWithCaption, func(slide *pptx.Slide) error {
		ph, err := slide.Placeholder(pictureIdx)
		if err != nil {
			return fmt.Errorf("%s layout: %w", LayoutPictureWithCaption, err)
		}
		if err := setOrRemove(slide, titleIdx, title); err != nil {
			return err
		}
		ph.SetSize(pptx.Pixel(info.Width), pptx.Pixel(info.Height))
		if _, err := ph.InsertPicture(slide, picture); err != nil {
			return err
		}
		return setOrRemove(slide, captionIdx, caption)
	})
	if err != nil {
		return nil, err
	}
	d.logSlide(slide, zap.String("picture", picture))
	return slide, nil
}

// AddBlankSlide adds a Blank slide. A non-empty picture is placed at the
// top-left corner, as wide as the slide, with its height following the
// image's aspect ratio.
func (d *Deck) AddBlankSlide(picture string) (*pptx.Slide, error) {
	slide, err := d.addSlide(LayoutBlank, func(slide *pptx.Slide) error {
		if picture == "" {
			return nil
		}
		_, err := slide.AddPicture(picture, 0, 0, d.pres.GetLayout().CX, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.logSlide(slide, zap.String("picture", picture))
	return slide, nil
}

// setOrRemove fills the placeholder with text, or removes it when text is empty.
func setOrRemove(slide *pptx.Slide, idx int, text string) error {
	ph, err := slide.Placeholder(idx)
	if err != nil {
		return fmt.Errorf("%s layout: %w", slide.GetLayout().Name, err)
	}
	if text == "" {
		ph.Remove(slide)
		return nil
	}
	ph.SetText(text)
	return nil
}

func (d *Deck) logSlide(slide *pptx.Slide, fields ...zap.Field) {
	fields = append(fields,
		zap.Int("slide", d.pres.GetSlideCount()),
		zap.String("layout", slide.GetLayout().Name),
	)
	d.logger.Debug("slide added", fields...)
	if !d.debugShapes {
		return
	}
	for _, info := range DescribeSlide(slide) {
		d.logger.Debug("shape",
			zap.Int("slide", d.pres.GetSlideCount()),
			zap.String("kind", info.Kind),
			zap.String("name", info.Name),
			zap.Int("idx", info.Idx),
			zap.String("type", info.Type),
		)
	}
}

// Save validates the deck and writes it to path. The file is either written
// completely or not at all.
func (d *Deck) Save(path string) error {
	if d.thumbnail && d.pres.GetSlideCount() > 0 {
		thumb, err := d.pres.RenderThumbnail(thumbnailWidth)
		if err != nil {
			return fmt.Errorf("failed to render thumbnail: %w", err)
		}
		d.pres.GetPresentationProperties().SetThumbnailData(thumb)
	}
	if err := d.pres.Validate(); err != nil {
		return err
	}
	if err := d.pres.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	d.logger.Info("presentation saved",
		zap.String("path", path),
		zap.Int("slides", d.pres.GetSlideCount()),
	)
	return nil
}
