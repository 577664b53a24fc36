package pptx

import (
	"archive/zip"
	"fmt"
	"strings"
)

// pictureRelIDs returns the slide-level relationship id of every picture.
// rId1 is the slide layout.
func pictureRelIDs(slide *Slide) map[*PictureShape]string {
	ids := make(map[*PictureShape]string)
	relIdx := 2
	for _, pic := range slide.Pictures() {
		ids[pic] = fmt.Sprintf("rId%d", relIdx)
		relIdx++
	}
	return ids
}

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the group shape
	relIDs := pictureRelIDs(slide)

	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *PlaceholderShape:
			shapesXML.WriteString(w.writePlaceholderShapeXML(s, &shapeID))
		case *PictureShape:
			shapesXML.WriteString(w.writePictureShapeXML(s, &shapeID, relIDs[s]))
		}
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, groupShapeHeader, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

// groupShapeHeader opens every spTree (slides, layouts, master).
const groupShapeHeader = `      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
`

func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slide *Slide, slideNum int) error {
	layoutPart := "ppt/slideLayouts/slideLayout1.xml"
	if slide.layout != nil {
		layoutPart = slide.layout.partName
	}

	var rels strings.Builder
	fmt.Fprintf(&rels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="%s"/>`,
		nsRelationships, relTypeSlideLayout, relativeTarget("ppt/slides", layoutPart))

	relIDs := pictureRelIDs(slide)
	for _, pic := range slide.Pictures() {
		fmt.Fprintf(&rels, `
  <Relationship Id="%s" Type="%s" Target="%s"/>`,
			relIDs[pic], relTypeImage, relativeTarget("ppt/slides", w.media[pic]))
	}

	rels.WriteString(`
</Relationships>`)
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels.String())
}

// phXML renders the <p:ph> element. Title placeholders omit idx and body
// content placeholders omit the type, matching what PowerPoint writes.
func phXML(t PlaceholderType, idx int) string {
	attrs := ""
	if t != "" && t != PlaceholderObject {
		attrs += fmt.Sprintf(` type="%s"`, t)
	}
	if idx != 0 {
		attrs += fmt.Sprintf(` idx="%d"`, idx)
	}
	return "<p:ph" + attrs + "/>"
}

func xfrmXML(x, y, w, h int64) string {
	return fmt.Sprintf(`<a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>`, x, y, w, h)
}

// --- Placeholder Shape XML ---

func (w *PPTXWriter) writePlaceholderShapeXML(s *PlaceholderShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Placeholder %d", id)
	}

	spPr := "<p:spPr/>"
	if s.positioned {
		spPr = fmt.Sprintf(`<p:spPr>
          %s
        </p:spPr>`, xfrmXML(s.offsetX, s.offsetY, s.width, s.height))
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(writeParagraphXML(para))
	}
	if len(s.paragraphs) == 0 {
		paragraphsXML.WriteString(writeParagraphXML(NewParagraph()))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            %s
          </p:nvPr>
        </p:nvSpPr>
        %s
        <p:txBody>
          <a:bodyPr/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name), phXML(s.phType, s.phIdx), spPr, paragraphsXML.String())
}

func writeParagraphXML(para *Paragraph) string {
	if len(para.runs) == 0 {
		return "          <a:p>\n            <a:endParaRPr lang=\"en-US\" dirty=\"0\"/>\n          </a:p>\n"
	}
	var sb strings.Builder
	sb.WriteString("          <a:p>\n")
	for _, tr := range para.runs {
		sb.WriteString(writeTextRunXML(tr))
	}
	sb.WriteString("          </a:p>\n")
	return sb.String()
}

func writeTextRunXML(tr *TextRun) string {
	attrs := ` lang="en-US" dirty="0"`
	fill := ""
	if f := tr.font; f != nil {
		if f.Size > 0 {
			attrs += fmt.Sprintf(` sz="%d"`, f.Size*100)
		}
		if f.Bold {
			attrs += ` b="1"`
		}
		if f.Italic {
			attrs += ` i="1"`
		}
		if len(f.Color) == 6 {
			fill = fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, strings.ToUpper(f.Color))
		}
	}
	rPr := fmt.Sprintf(`<a:rPr%s/>`, attrs)
	if fill != "" {
		rPr = fmt.Sprintf(`<a:rPr%s>%s</a:rPr>`, attrs, fill)
	}
	return fmt.Sprintf(`            <a:r>
              %s
              <a:t>%s</a:t>
            </a:r>
`, rPr, xmlEscape(tr.text))
}

// --- Picture Shape XML ---

func (w *PPTXWriter) writePictureShapeXML(s *PictureShape, shapeID *int, relID string) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Picture %d", id)
	}

	locks := `<a:picLocks noChangeAspect="1"/>`
	nvPr := "<p:nvPr/>"
	if s.placeholder != nil {
		locks = `<a:picLocks noGrp="1" noChangeAspect="1"/>`
		nvPr = fmt.Sprintf("<p:nvPr>%s</p:nvPr>", phXML(s.placeholder.phType, s.placeholder.idx))
	}

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="%s" descr="%s"/>
          <p:cNvPicPr>
            %s
          </p:cNvPicPr>
          %s
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="%s"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          %s
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
        </p:spPr>
      </p:pic>
`, id, xmlEscape(name), xmlEscape(s.description),
		locks, nvPr, relID,
		xfrmXML(s.offsetX, s.offsetY, s.width, s.height))
}
