package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Reader is the interface for presentation readers.
type Reader interface {
	Read(path string) (*Presentation, error)
	ReadFromReader(r io.ReaderAt, size int64) (*Presentation, error)
}

// ReaderType represents the input format.
type ReaderType string

const (
	ReaderPowerPoint2007 ReaderType = "PowerPoint2007"
)

// NewReader creates a reader for the given format.
func NewReader(format ReaderType) (Reader, error) {
	switch format {
	case ReaderPowerPoint2007:
		return &PPTXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported reader format: %s", format)
	}
}

// PPTXReader reads PPTX files.
type PPTXReader struct {
	// layoutsOnly skips the package's slides; set when opening a template.
	layoutsOnly bool
}

// zipIndex builds a map from file name to *zip.File for O(1) lookups.
func zipIndex(zr *zip.Reader) map[string]*zip.File {
	m := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		m[f.Name] = f
	}
	return m
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// Read reads a presentation from a file path.
func (r *PPTXReader) Read(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return r.ReadFromReader(f, info.Size())
}

// ReadFromReader reads a presentation from an io.ReaderAt.
func (r *PPTXReader) ReadFromReader(reader io.ReaderAt, size int64) (*Presentation, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	pkg := &zipPackage{files: zipIndex(zr)}
	pkg.types = pkg.readContentTypes()

	pres := &Presentation{
		properties:             NewDocumentProperties(),
		presentationProperties: NewPresentationProperties(),
		slides:                 make([]*Slide, 0),
		slideMasters:           make([]*SlideMaster, 0),
		layout:                 NewDocumentLayout(),
	}

	// Missing properties are acceptable.
	_ = r.readCoreProperties(pkg, pres)
	if thumb, err := pkg.read(thumbnailPart); err == nil {
		pres.presentationProperties.SetThumbnailData(thumb)
	}

	presPart := "ppt/presentation.xml"
	rootRels, err := pkg.readRelationships("_rels/.rels")
	if err != nil {
		return nil, err
	}
	for _, rel := range rootRels {
		if rel.Type == relTypeOfficeDoc {
			presPart = resolvePartName("", rel.Target)
		}
	}

	doc, err := r.readPresentation(pkg, presPart, pres)
	if err != nil {
		return nil, err
	}
	presRels, err := pkg.readRelationships(relsPartFor(presPart))
	if err != nil {
		return nil, err
	}
	relTargets := make(map[string]string, len(presRels))
	for _, rel := range presRels {
		relTargets[rel.ID] = resolvePartName(presPart, rel.Target)
	}

	if len(doc.MasterIDs) == 0 {
		return nil, fmt.Errorf("presentation has no slide master")
	}
	// Only the first master is carried; every layout used for new slides
	// comes from it.
	masterPart := relTargets[doc.MasterIDs[0].RID]
	if masterPart == "" {
		return nil, fmt.Errorf("slide master relationship %s not found", doc.MasterIDs[0].RID)
	}
	master, err := r.readSlideMaster(pkg, masterPart)
	if err != nil {
		return nil, fmt.Errorf("failed to read slide master %s: %w", masterPart, err)
	}
	pres.slideMasters = append(pres.slideMasters, master)

	tmpl, err := r.collectTemplate(pkg, masterPart)
	if err != nil {
		return nil, err
	}
	pres.template = tmpl

	if r.layoutsOnly {
		return pres, nil
	}
	for _, sid := range doc.SlideIDs {
		target := relTargets[sid.RID]
		if target == "" {
			continue
		}
		slide, err := r.readSlide(pkg, target, master)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", target, err)
		}
		pres.slides = append(pres.slides, slide)
	}

	return pres, nil
}

// zipPackage gives guarded access to the parts of an opened package.
type zipPackage struct {
	files map[string]*zip.File
	types contentTypeIndex
	total int64
}

func (z *zipPackage) read(name string) ([]byte, error) {
	f, ok := z.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
	}
	z.total += int64(len(data))
	if z.total > maxZipTotalSize {
		return nil, fmt.Errorf("extracted content exceeds maximum allowed size (%d bytes)", maxZipTotalSize)
	}
	return data, nil
}

func (z *zipPackage) exists(name string) bool {
	_, ok := z.files[name]
	return ok
}

// --- Content types ---

func (z *zipPackage) readContentTypes() contentTypeIndex {
	idx := contentTypeIndex{
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
	data, err := z.read("[Content_Types].xml")
	if err != nil {
		return idx
	}
	var ct xmlContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return idx
	}
	for _, d := range ct.Defaults {
		idx.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range ct.Overrides {
		idx.overrides[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return idx
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func (z *zipPackage) readRelationships(name string) ([]xmlRelForRead, error) {
	if !z.exists(name) {
		return nil, nil // relationships part is optional
	}
	data, err := z.read(name)
	if err != nil {
		return nil, err
	}
	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", name, err)
	}
	return rels.Relationships, nil
}

// --- Core properties ---

type xmlCorePropsRead struct {
	Creator        string `xml:"creator"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Title          string `xml:"title"`
	Description    string `xml:"description"`
	Subject        string `xml:"subject"`
	Keywords       string `xml:"keywords"`
	Category       string `xml:"category"`
	Revision       string `xml:"revision"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

func (r *PPTXReader) readCoreProperties(z *zipPackage, pres *Presentation) error {
	data, err := z.read("docProps/core.xml")
	if err != nil {
		return err
	}
	var cp xmlCorePropsRead
	if err := xml.Unmarshal(data, &cp); err != nil {
		return fmt.Errorf("failed to parse core properties: %w", err)
	}
	props := pres.properties
	props.Creator = cp.Creator
	props.LastModifiedBy = cp.LastModifiedBy
	props.Title = cp.Title
	props.Description = cp.Description
	props.Subject = cp.Subject
	props.Keywords = cp.Keywords
	props.Category = cp.Category
	props.Revision = cp.Revision
	if t, err := time.Parse(time.RFC3339, cp.Created); err == nil {
		props.Created = t
	}
	if t, err := time.Parse(time.RFC3339, cp.Modified); err == nil {
		props.Modified = t
	}
	return nil
}

// --- presentation.xml ---

type xmlPresentationRead struct {
	MasterIDs []xmlIDRef `xml:"sldMasterIdLst>sldMasterId"`
	SlideIDs  []xmlIDRef `xml:"sldIdLst>sldId"`
	SldSz     *struct {
		CX   int64  `xml:"cx,attr"`
		CY   int64  `xml:"cy,attr"`
		Type string `xml:"type,attr"`
	} `xml:"sldSz"`
}

// xmlIDRef is an id list entry; only the relationship id is used.
type xmlIDRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

func (r *PPTXReader) readPresentation(z *zipPackage, name string, pres *Presentation) (*xmlPresentationRead, error) {
	data, err := z.read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation.xml: %w", err)
	}
	var doc xmlPresentationRead
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse presentation.xml: %w", err)
	}
	if doc.SldSz != nil && doc.SldSz.CX > 0 && doc.SldSz.CY > 0 {
		pres.layout.CX = doc.SldSz.CX
		pres.layout.CY = doc.SldSz.CY
		pres.layout.Name = LayoutCustom
		if doc.SldSz.Type != "" {
			pres.layout.Name = doc.SldSz.Type
		}
	}
	return &doc, nil
}

// --- Shape trees (master, layouts, slides) ---

type xmlShapeTreeRead struct {
	Type string `xml:"type,attr"`
	CSld struct {
		Name   string `xml:"name,attr"`
		SpTree struct {
			Shapes []xmlShapeRead `xml:",any"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

// xmlShapeRead covers both <p:sp> and <p:pic>; XMLName tells them apart.
type xmlShapeRead struct {
	XMLName xml.Name
	NvSpPr  *xmlNvRead `xml:"nvSpPr"`
	NvPicPr *xmlNvRead `xml:"nvPicPr"`
	Xfrm    *xmlXfrm   `xml:"spPr>xfrm"`
	TxBody  *struct {
		Paragraphs []xmlParagraphRead `xml:"p"`
	} `xml:"txBody"`
	BlipFill *struct {
		Blip struct {
			Embed string `xml:"embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
}

type xmlNvRead struct {
	CNvPr struct {
		ID    string `xml:"id,attr"`
		Name  string `xml:"name,attr"`
		Descr string `xml:"descr,attr"`
	} `xml:"cNvPr"`
	Ph *struct {
		Type string `xml:"type,attr"`
		Idx  string `xml:"idx,attr"`
	} `xml:"nvPr>ph"`
}

type xmlXfrm struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

type xmlParagraphRead struct {
	Runs []struct {
		RPr *struct {
			Sz        int    `xml:"sz,attr"`
			B         string `xml:"b,attr"`
			I         string `xml:"i,attr"`
			SolidFill *struct {
				SrgbClr struct {
					Val string `xml:"val,attr"`
				} `xml:"srgbClr"`
			} `xml:"solidFill"`
		} `xml:"rPr"`
		T string `xml:"t"`
	} `xml:"r"`
}

func (s *xmlShapeRead) nv() *xmlNvRead {
	if s.NvSpPr != nil {
		return s.NvSpPr
	}
	return s.NvPicPr
}

// placeholder returns the placeholder type and idx, ok=false for plain shapes.
// A <p:ph> without a type attribute is an object placeholder.
func (s *xmlShapeRead) placeholder() (PlaceholderType, int, bool) {
	nv := s.nv()
	if nv == nil || nv.Ph == nil {
		return "", 0, false
	}
	t := PlaceholderType(nv.Ph.Type)
	if t == "" {
		t = PlaceholderObject
	}
	idx, _ := strconv.Atoi(nv.Ph.Idx)
	return t, idx, true
}

func (r *PPTXReader) readShapeTree(z *zipPackage, name string) (*xmlShapeTreeRead, error) {
	data, err := z.read(name)
	if err != nil {
		return nil, err
	}
	var tree xmlShapeTreeRead
	if err := xml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &tree, nil
}

func layoutPlaceholders(tree *xmlShapeTreeRead) []*LayoutPlaceholder {
	var out []*LayoutPlaceholder
	for i := range tree.CSld.SpTree.Shapes {
		s := &tree.CSld.SpTree.Shapes[i]
		t, idx, ok := s.placeholder()
		if !ok {
			continue
		}
		lp := &LayoutPlaceholder{Type: t, Idx: idx, Name: s.nv().CNvPr.Name}
		if s.Xfrm != nil {
			lp.OffsetX, lp.OffsetY = s.Xfrm.Off.X, s.Xfrm.Off.Y
			lp.Width, lp.Height = s.Xfrm.Ext.CX, s.Xfrm.Ext.CY
			lp.hasXfrm = true
		}
		out = append(out, lp)
	}
	return out
}

// --- Slide master and layouts ---

type xmlMasterLayoutIDs struct {
	LayoutIDs []xmlIDRef `xml:"sldLayoutIdLst>sldLayoutId"`
}

func (r *PPTXReader) readSlideMaster(z *zipPackage, name string) (*SlideMaster, error) {
	data, err := z.read(name)
	if err != nil {
		return nil, err
	}
	var ids xmlMasterLayoutIDs
	if err := xml.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse layout list: %w", err)
	}
	tree, err := r.readShapeTree(z, name)
	if err != nil {
		return nil, err
	}
	rels, err := z.readRelationships(relsPartFor(name))
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		targets[rel.ID] = resolvePartName(name, rel.Target)
	}

	sm := &SlideMaster{
		Name:         tree.CSld.Name,
		partName:     name,
		placeholders: layoutPlaceholders(tree),
	}
	for _, id := range ids.LayoutIDs {
		layoutPart := targets[id.RID]
		if layoutPart == "" {
			return nil, fmt.Errorf("slide layout relationship %s not found", id.RID)
		}
		lt, err := r.readShapeTree(z, layoutPart)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide layout %s: %w", layoutPart, err)
		}
		sm.SlideLayouts = append(sm.SlideLayouts, &SlideLayout{
			Name:         lt.CSld.Name,
			Type:         lt.Type,
			index:        len(sm.SlideLayouts),
			partName:     layoutPart,
			master:       sm,
			placeholders: layoutPlaceholders(lt),
		})
	}
	return sm, nil
}

// collectTemplate walks the relationship graph from the slide master and
// captures every internal part it reaches, verbatim.
func (r *PPTXReader) collectTemplate(z *zipPackage, masterPart string) (*templatePackage, error) {
	t := newTemplatePackage()
	queue := []string{masterPart}
	seen := map[string]bool{masterPart: true}

	for len(queue) > 0 {
		part := queue[0]
		queue = queue[1:]

		data, err := z.read(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read template part: %w", err)
		}
		t.parts[part] = data
		t.contentTypes[part] = z.types.lookup(part)

		relsPart := relsPartFor(part)
		if !z.exists(relsPart) {
			continue
		}
		relsData, err := z.read(relsPart)
		if err != nil {
			return nil, fmt.Errorf("failed to read template part: %w", err)
		}
		t.parts[relsPart] = relsData
		t.contentTypes[relsPart] = ctRels

		rels, err := z.readRelationships(relsPart)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if strings.EqualFold(rel.TargetMode, "External") {
				continue
			}
			target := resolvePartName(part, rel.Target)
			if part == masterPart && rel.Type == relTypeTheme {
				t.themePart = target
			}
			if seen[target] || !z.exists(target) {
				continue
			}
			seen[target] = true
			queue = append(queue, target)
		}
	}
	return t, nil
}

// --- Slides ---

func (r *PPTXReader) readSlide(z *zipPackage, name string, master *SlideMaster) (*Slide, error) {
	tree, err := r.readShapeTree(z, name)
	if err != nil {
		return nil, err
	}
	rels, err := z.readRelationships(relsPartFor(name))
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels))
	var layout *SlideLayout
	for _, rel := range rels {
		target := resolvePartName(name, rel.Target)
		targets[rel.ID] = target
		if rel.Type == relTypeSlideLayout {
			for _, l := range master.SlideLayouts {
				if l.partName == target {
					layout = l
				}
			}
		}
	}

	slide := &Slide{layout: layout, shapes: make([]Shape, 0)}
	for i := range tree.CSld.SpTree.Shapes {
		s := &tree.CSld.SpTree.Shapes[i]
		switch s.XMLName.Local {
		case "sp":
			if sh := r.readPlaceholder(s, layout); sh != nil {
				slide.shapes = append(slide.shapes, sh)
			}
		case "pic":
			pic, err := r.readPicture(z, s, targets)
			if err != nil {
				return nil, err
			}
			slide.shapes = append(slide.shapes, pic)
		}
	}
	return slide, nil
}

// readPlaceholder rebuilds a placeholder shape. Shapes that are not
// placeholders are not part of the model and are skipped.
func (r *PPTXReader) readPlaceholder(s *xmlShapeRead, layout *SlideLayout) *PlaceholderShape {
	t, idx, ok := s.placeholder()
	if !ok {
		return nil
	}
	ph := NewPlaceholderShape(t, idx)
	ph.name = s.nv().CNvPr.Name
	if layout != nil {
		ph.master = layout.master
		for _, lp := range layout.placeholders {
			if lp.Idx == idx && lp.Type.family() == t.family() {
				ph.inherited = lp
				break
			}
		}
	}
	if s.Xfrm != nil {
		ph.offsetX, ph.offsetY = s.Xfrm.Off.X, s.Xfrm.Off.Y
		ph.width, ph.height = s.Xfrm.Ext.CX, s.Xfrm.Ext.CY
		ph.positioned = true
	}
	if s.TxBody != nil && len(s.TxBody.Paragraphs) > 0 {
		ph.paragraphs = make([]*Paragraph, 0, len(s.TxBody.Paragraphs))
		for _, xp := range s.TxBody.Paragraphs {
			para := NewParagraph()
			for _, xr := range xp.Runs {
				tr := para.CreateTextRun(xr.T)
				if xr.RPr == nil {
					continue
				}
				if xr.RPr.Sz > 0 {
					tr.GetFont().SetSize(xr.RPr.Sz / 100)
				}
				if xr.RPr.B == "1" || xr.RPr.B == "true" {
					tr.GetFont().SetBold(true)
				}
				if xr.RPr.I == "1" || xr.RPr.I == "true" {
					tr.GetFont().SetItalic(true)
				}
				if xr.RPr.SolidFill != nil && xr.RPr.SolidFill.SrgbClr.Val != "" {
					tr.GetFont().SetColor(xr.RPr.SolidFill.SrgbClr.Val)
				}
			}
			ph.paragraphs = append(ph.paragraphs, para)
		}
	}
	return ph
}

func (r *PPTXReader) readPicture(z *zipPackage, s *xmlShapeRead, targets map[string]string) (*PictureShape, error) {
	pic := &PictureShape{}
	if nv := s.nv(); nv != nil {
		pic.name = nv.CNvPr.Name
		pic.description = nv.CNvPr.Descr
	}
	if s.Xfrm != nil {
		pic.SetPosition(s.Xfrm.Off.X, s.Xfrm.Off.Y)
		pic.SetSize(s.Xfrm.Ext.CX, s.Xfrm.Ext.CY)
	}
	if t, idx, ok := s.placeholder(); ok {
		pic.placeholder = &placeholderRef{phType: t, idx: idx}
	}

	embed := ""
	if s.BlipFill != nil {
		embed = s.BlipFill.Blip.Embed
	}
	mediaPart := targets[embed]
	if mediaPart == "" {
		return nil, fmt.Errorf("picture %q: image relationship %q not found", pic.name, embed)
	}
	data, err := z.read(mediaPart)
	if err != nil {
		return nil, err
	}
	pic.data = data
	pic.mimeType = guessMimeFromPath(mediaPart)
	if info, err := DecodeImageInfo(bytes.NewReader(data)); err == nil {
		pic.mimeType = info.MimeType
		pic.pixelWidth, pic.pixelHeight = info.Width, info.Height
	}
	return pic, nil
}
