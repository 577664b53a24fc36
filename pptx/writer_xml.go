package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeThumbnail   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"

	thumbnailPart = "docProps/thumbnail.jpeg"
)

func writeXMLToZip(zw *zip.Writer, name string, v interface{}) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", name, err)
	}
	if _, err := fw.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(fw)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

func writeRawToZip(zw *zip.Writer, name string, content []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", name, err)
	}
	_, err = fw.Write(content)
	return err
}

func writeRawXMLToZip(zw *zip.Writer, name string, content string) error {
	return writeRawToZip(zw, name, []byte(content))
}

// relativeTarget returns the relationship target for part "to" as seen
// from a part living in directory fromDir (both package-relative).
func relativeTarget(fromDir, to string) string {
	from := strings.Split(strings.Trim(fromDir, "/"), "/")
	dest := strings.Split(strings.Trim(to, "/"), "/")
	if fromDir == "" {
		from = nil
	}
	i := 0
	for i < len(from) && i < len(dest)-1 && from[i] == dest[i] {
		i++
	}
	parts := make([]string, 0, len(from)-i+len(dest)-i)
	for j := i; j < len(from); j++ {
		parts = append(parts, "..")
	}
	parts = append(parts, dest[i:]...)
	return strings.Join(parts, "/")
}

// --- Content Types ---

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (w *PPTXWriter) writeContentTypes(zw *zip.Writer) error {
	ct := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xmlOverride{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
			{PartName: "/ppt/viewProps.xml", ContentType: ctViewProps},
			{PartName: "/ppt/tableStyles.xml", ContentType: ctTableStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ctExtProps},
		},
	}

	addDefault := func(ext, contentType string) {
		for _, d := range ct.Defaults {
			if d.Extension == ext {
				return
			}
		}
		ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: contentType})
	}

	if w.presentation.template == nil {
		ct.Overrides = append(ct.Overrides,
			xmlOverride{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			xmlOverride{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
		)
		for _, layout := range w.presentation.GetSlideLayouts() {
			ct.Overrides = append(ct.Overrides, xmlOverride{PartName: "/" + layout.partName, ContentType: ctSlideLayout})
		}
	} else {
		for _, name := range w.presentation.template.partNames() {
			if strings.HasSuffix(name, ".rels") {
				continue
			}
			ct.Overrides = append(ct.Overrides, xmlOverride{
				PartName:    "/" + name,
				ContentType: w.presentation.template.contentTypes[name],
			})
		}
	}

	for i := range w.presentation.slides {
		ct.Overrides = append(ct.Overrides, xmlOverride{
			PartName:    fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			ContentType: ctSlide,
		})
	}

	for _, pic := range w.mediaOrder {
		addDefault(strings.TrimPrefix(path.Ext(w.media[pic]), "."), pic.mimeType)
	}
	if w.hasThumbnail() {
		addDefault("jpeg", "image/jpeg")
	}

	return writeXMLToZip(zw, "[Content_Types].xml", ct)
}

// --- Relationships ---

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func (w *PPTXWriter) writeRootRels(zw *zip.Writer) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: "ppt/presentation.xml"},
			{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relTypeExtProps, Target: "docProps/app.xml"},
		},
	}
	if w.hasThumbnail() {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID: "rId4", Type: relTypeThumbnail, Target: thumbnailPart,
		})
	}
	return writeXMLToZip(zw, "_rels/.rels", rels)
}

// slideRelID is the presentation-level relationship id of slide n (1-based).
// rId1 is always the slide master.
func slideRelID(n int) string {
	return fmt.Sprintf("rId%d", n+1)
}

func (w *PPTXWriter) writePresentationRels(zw *zip.Writer) error {
	master := w.presentation.slideMasters[0]
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.Relationships = append(rels.Relationships, xmlRelationship{
		ID:     "rId1",
		Type:   relTypeSlideMaster,
		Target: relativeTarget("ppt", master.partName),
	})
	for i := range w.presentation.slides {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID:     slideRelID(i + 1),
			Type:   relTypeSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}

	relIdx := len(w.presentation.slides) + 2
	next := func(typ, target string) {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID: fmt.Sprintf("rId%d", relIdx), Type: typ, Target: target,
		})
		relIdx++
	}
	next(relTypePresProps, "presProps.xml")
	next(relTypeViewProps, "viewProps.xml")
	next(relTypeTheme, relativeTarget("ppt", w.themePart()))
	next(relTypeTableStyles, "tableStyles.xml")

	return writeXMLToZip(zw, "ppt/_rels/presentation.xml.rels", rels)
}

func (w *PPTXWriter) themePart() string {
	if w.presentation.template != nil && w.presentation.template.themePart != "" {
		return w.presentation.template.themePart
	}
	return "ppt/theme/theme1.xml"
}

// --- presentation.xml ---

func (w *PPTXWriter) writePresentation(zw *zip.Writer) error {
	layout := w.presentation.layout
	if layout == nil {
		layout = NewDocumentLayout()
	}

	var sldIDs strings.Builder
	if len(w.presentation.slides) > 0 {
		sldIDs.WriteString("  <p:sldIdLst>\n")
		for i := range w.presentation.slides {
			fmt.Fprintf(&sldIDs, "    <p:sldId id=\"%d\" r:id=\"%s\"/>\n", 256+i, slideRelID(i+1))
		}
		sldIDs.WriteString("  </p:sldIdLst>\n")
	}

	sizeType := ""
	switch layout.Name {
	case LayoutScreen4x3, LayoutScreen16x9, LayoutScreen16x10:
		sizeType = fmt.Sprintf(` type="%s"`, layout.Name)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
%s  <p:sldSz cx="%d" cy="%d"%s/>
  <p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		sldIDs.String(), layout.CX, layout.CY, sizeType)
	return writeRawXMLToZip(zw, "ppt/presentation.xml", content)
}

func (w *PPTXWriter) writePresProps(zw *zip.Writer) error {
	return writeRawXMLToZip(zw, "ppt/presProps.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawingML, nsOfficeDocRels, nsPresentationML))
}

func (w *PPTXWriter) writeViewProps(zw *zip.Writer) error {
	return writeRawXMLToZip(zw, "ppt/viewProps.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:viewPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:normalViewPr>
    <p:restoredLeft sz="15620"/>
    <p:restoredTop sz="94660"/>
  </p:normalViewPr>
  <p:gridSpacing cx="76200" cy="76200"/>
</p:viewPr>`, nsDrawingML, nsOfficeDocRels, nsPresentationML))
}

func (w *PPTXWriter) writeTableStyles(zw *zip.Writer) error {
	return writeRawXMLToZip(zw, "ppt/tableStyles.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:tblStyleLst xmlns:a="%s" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`, nsDrawingML))
}

// --- App / Core Properties ---

func (w *PPTXWriter) writeAppProperties(zw *zip.Writer) error {
	props := w.presentation.properties
	if props == nil {
		props = NewDocumentProperties()
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <Application>AutomatedPowerPoint v%s</Application>
  <Company>%s</Company>
  <Slides>%d</Slides>
</Properties>`, nsExtProperties, Version, xmlEscape(props.Company), len(w.presentation.slides))
	return writeRawXMLToZip(zw, "docProps/app.xml", content)
}

func (w *PPTXWriter) writeCoreProperties(zw *zip.Writer) error {
	props := w.presentation.properties
	if props == nil {
		props = NewDocumentProperties()
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:creator>%s</dc:creator>
  <cp:lastModifiedBy>%s</cp:lastModifiedBy>
  <dc:title>%s</dc:title>
  <dc:description>%s</dc:description>
  <dc:subject>%s</dc:subject>
  <cp:keywords>%s</cp:keywords>
  <cp:category>%s</cp:category>
  <cp:revision>%s</cp:revision>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(props.Creator),
		xmlEscape(props.LastModifiedBy),
		xmlEscape(props.Title),
		xmlEscape(props.Description),
		xmlEscape(props.Subject),
		xmlEscape(props.Keywords),
		xmlEscape(props.Category),
		xmlEscape(props.Revision),
		props.Created.UTC().Format("2006-01-02T15:04:05Z"),
		props.Modified.UTC().Format("2006-01-02T15:04:05Z"),
	)
	return writeRawXMLToZip(zw, "docProps/core.xml", content)
}

func (w *PPTXWriter) hasThumbnail() bool {
	pp := w.presentation.presentationProperties
	return pp != nil && len(pp.thumbnailData) > 0
}

func (w *PPTXWriter) writeThumbnail(zw *zip.Writer) error {
	if !w.hasThumbnail() {
		return nil
	}
	return writeRawToZip(zw, thumbnailPart, w.presentation.presentationProperties.thumbnailData)
}

// xmlEscape escapes special XML characters using the standard library.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
