package pptx

import (
	"fmt"
	"strings"
)

// Validate checks the presentation for structural issues and returns an error
// describing all problems found, or nil if the presentation is valid.
// An empty presentation is valid.
func (p *Presentation) Validate() error {
	var errs []string

	if p.properties == nil {
		errs = append(errs, "document properties are nil")
	}
	if p.presentationProperties == nil {
		errs = append(errs, "presentation properties are nil")
	}
	if p.layout == nil {
		errs = append(errs, "document layout is nil")
	} else {
		if p.layout.CX <= 0 {
			errs = append(errs, "layout width (CX) must be positive")
		}
		if p.layout.CY <= 0 {
			errs = append(errs, "layout height (CY) must be positive")
		}
	}
	if len(p.slideMasters) == 0 {
		errs = append(errs, "presentation has no slide master")
	}

	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide.layout == nil {
			errs = append(errs, prefix+": slide has no layout")
		} else if !p.ownsLayout(slide.layout) {
			errs = append(errs, prefix+": layout "+slide.layout.Name+" does not belong to this presentation")
		}
		for _, e := range validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	seenIdx := make(map[int]bool)
	for j, shape := range s.shapes {
		prefix := fmt.Sprintf("shape %d", j+1)
		if shape == nil {
			errs = append(errs, prefix+": shape is nil")
			continue
		}
		if shape.GetWidth() < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if shape.GetHeight() < 0 {
			errs = append(errs, prefix+": height is negative")
		}

		switch sh := shape.(type) {
		case *PictureShape:
			if len(sh.data) == 0 {
				errs = append(errs, prefix+": picture has no image data")
			}
			if sh.mimeType != "" && !isValidImageMime(sh.mimeType) {
				errs = append(errs, prefix+": unsupported image MIME type: "+sh.mimeType)
			}
			if sh.placeholder != nil {
				if seenIdx[sh.placeholder.idx] {
					errs = append(errs, fmt.Sprintf("%s: duplicate placeholder idx %d", prefix, sh.placeholder.idx))
				}
				seenIdx[sh.placeholder.idx] = true
			}
		case *PlaceholderShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": placeholder shape has no paragraphs")
			}
			if sh.phType == "" {
				errs = append(errs, prefix+": placeholder type is empty")
			}
			if seenIdx[sh.phIdx] {
				errs = append(errs, fmt.Sprintf("%s: duplicate placeholder idx %d", prefix, sh.phIdx))
			}
			seenIdx[sh.phIdx] = true
			for i, para := range sh.paragraphs {
				if para == nil {
					errs = append(errs, fmt.Sprintf("%s: paragraph %d is nil", prefix, i+1))
				}
			}
		}
	}
	return errs
}

// isValidImageMime checks if a MIME type is a supported raster image format.
func isValidImageMime(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff", "image/webp":
		return true
	}
	return false
}
