package pptx

import (
	"fmt"
	"io"
)

// Open reads the PPTX file at path, slides included.
func Open(path string) (*Presentation, error) {
	return openPackage(func(r Reader) (*Presentation, error) { return r.Read(path) })
}

// ReadFrom is Open for a package held in r.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	return openPackage(func(rd Reader) (*Presentation, error) { return rd.ReadFromReader(r, size) })
}

// OpenTemplate returns an empty presentation built on the slide master,
// layouts and theme of the file at path. The file's slides are dropped.
func OpenTemplate(path string) (*Presentation, error) {
	return asTemplate((&PPTXReader{layoutsOnly: true}).Read(path))
}

// OpenTemplateFrom is OpenTemplate for a package held in r.
func OpenTemplateFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	return asTemplate((&PPTXReader{layoutsOnly: true}).ReadFromReader(r, size))
}

func openPackage(read func(Reader) (*Presentation, error)) (*Presentation, error) {
	r, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return read(r)
}

func asTemplate(p *Presentation, err error) (*Presentation, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	p.slides = p.slides[:0]
	return p, nil
}

// Save writes the presentation to path, creating parent directories.
func (p *Presentation) Save(path string) error {
	w, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return w.Save(path)
}

// WriteTo writes the presentation package to w.
func (p *Presentation) WriteTo(w io.Writer) error {
	pw, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return pw.WriteTo(w)
}

// Close drops the presentation's slides, masters and template parts.
func (p *Presentation) Close() error {
	*p = Presentation{}
	return nil
}

// IsTemplateBased reports whether the layouts came from a file rather than
// the built-in set.
func (p *Presentation) IsTemplateBased() bool {
	return p.template != nil
}
