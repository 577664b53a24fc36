package pptx

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// writeMasterParts writes the slide master, its layouts and the theme.
// Template presentations copy their parts verbatim.
func (w *PPTXWriter) writeMasterParts(zw *zip.Writer) error {
	if t := w.presentation.template; t != nil {
		for _, name := range t.partNames() {
			if err := writeRawToZip(zw, name, t.parts[name]); err != nil {
				return err
			}
		}
		return nil
	}

	master := w.presentation.slideMasters[0]
	if err := w.writeBuiltinMaster(zw, master); err != nil {
		return err
	}
	for _, layout := range master.SlideLayouts {
		if err := w.writeBuiltinLayout(zw, layout); err != nil {
			return err
		}
	}
	return writeRawXMLToZip(zw, "ppt/theme/theme1.xml", builtinThemeXML)
}

func (w *PPTXWriter) writeBuiltinMaster(zw *zip.Writer, master *SlideMaster) error {
	var shapes strings.Builder
	for i, mp := range master.placeholders {
		shapes.WriteString(layoutPlaceholderXML(mp, i+2, masterPromptText(mp.Type)))
	}

	var layoutIDs strings.Builder
	for i := range master.SlideLayouts {
		fmt.Fprintf(&layoutIDs, "    <p:sldLayoutId id=\"%d\" r:id=\"rId%d\"/>\n", 2147483649+i, i+1)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:bg>
      <p:bgRef idx="1001">
        <a:schemeClr val="bg1"/>
      </p:bgRef>
    </p:bg>
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
  <p:sldLayoutIdLst>
%s  </p:sldLayoutIdLst>
  <p:txStyles>
    <p:titleStyle>
      <a:lvl1pPr algn="ctr" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1">
        <a:spcBef><a:spcPct val="0"/></a:spcBef>
        <a:buNone/>
        <a:defRPr sz="4400" kern="1200">
          <a:solidFill><a:schemeClr val="tx1"/></a:solidFill>
          <a:latin typeface="+mj-lt"/>
          <a:ea typeface="+mj-ea"/>
          <a:cs typeface="+mj-cs"/>
        </a:defRPr>
      </a:lvl1pPr>
    </p:titleStyle>
    <p:bodyStyle>
      <a:lvl1pPr marL="342900" indent="-342900" algn="l" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1">
        <a:spcBef><a:spcPct val="20000"/></a:spcBef>
        <a:buFont typeface="Arial"/>
        <a:buChar char="&#8226;"/>
        <a:defRPr sz="3200" kern="1200">
          <a:solidFill><a:schemeClr val="tx1"/></a:solidFill>
          <a:latin typeface="+mn-lt"/>
          <a:ea typeface="+mn-ea"/>
          <a:cs typeface="+mn-cs"/>
        </a:defRPr>
      </a:lvl1pPr>
    </p:bodyStyle>
    <p:otherStyle>
      <a:lvl1pPr marL="0" algn="l" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1">
        <a:defRPr sz="1800" kern="1200">
          <a:solidFill><a:schemeClr val="tx1"/></a:solidFill>
          <a:latin typeface="+mn-lt"/>
          <a:ea typeface="+mn-ea"/>
          <a:cs typeface="+mn-cs"/>
        </a:defRPr>
      </a:lvl1pPr>
    </p:otherStyle>
  </p:txStyles>
</p:sldMaster>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		groupShapeHeader, shapes.String(), layoutIDs.String())

	if err := writeRawXMLToZip(zw, master.partName, content); err != nil {
		return err
	}

	rels := xmlRelationships{Xmlns: nsRelationships}
	dir := path.Dir(master.partName)
	for i, layout := range master.SlideLayouts {
		rels.Relationships = append(rels.Relationships, xmlRelationship{
			ID:     fmt.Sprintf("rId%d", i+1),
			Type:   relTypeSlideLayout,
			Target: relativeTarget(dir, layout.partName),
		})
	}
	rels.Relationships = append(rels.Relationships, xmlRelationship{
		ID:     fmt.Sprintf("rId%d", len(master.SlideLayouts)+1),
		Type:   relTypeTheme,
		Target: relativeTarget(dir, "ppt/theme/theme1.xml"),
	})
	return writeXMLToZip(zw, relsPartFor(master.partName), rels)
}

func (w *PPTXWriter) writeBuiltinLayout(zw *zip.Writer, layout *SlideLayout) error {
	var shapes strings.Builder
	for i, lp := range layout.placeholders {
		shapes.WriteString(layoutPlaceholderXML(lp, i+2, masterPromptText(lp.Type)))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="%s" preserve="1">
  <p:cSld name="%s">
    <p:spTree>
%s%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sldLayout>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		layout.Type, xmlEscape(layout.Name), groupShapeHeader, shapes.String())

	if err := writeRawXMLToZip(zw, layout.partName, content); err != nil {
		return err
	}

	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{{
			ID:     "rId1",
			Type:   relTypeSlideMaster,
			Target: relativeTarget(path.Dir(layout.partName), layout.master.partName),
		}},
	}
	return writeXMLToZip(zw, relsPartFor(layout.partName), rels)
}

// relsPartFor returns the relationships part name of a package part.
func relsPartFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func masterPromptText(t PlaceholderType) string {
	switch t {
	case PlaceholderTitle, PlaceholderCtrTitle:
		return "Click to edit Master title style"
	case PlaceholderSubTitle:
		return "Click to edit Master subtitle style"
	case PlaceholderBody, PlaceholderObject:
		return "Click to edit Master text styles"
	case PlaceholderPicture:
		return ""
	}
	return ""
}

func layoutPlaceholderXML(lp *LayoutPlaceholder, id int, prompt string) string {
	spPr := "<p:spPr/>"
	if lp.hasXfrm {
		spPr = fmt.Sprintf(`<p:spPr>
          %s
        </p:spPr>`, xfrmXML(lp.OffsetX, lp.OffsetY, lp.Width, lp.Height))
	}
	para := NewParagraph()
	if prompt != "" {
		para.CreateTextRun(prompt)
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
`, id, xmlEscape(lp.Name), phXML(lp.Type, lp.Idx), spPr, writeParagraphXML(para))
}

const builtinThemeXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:dk2><a:srgbClr val="1F497D"/></a:dk2>
      <a:lt2><a:srgbClr val="EEECE1"/></a:lt2>
      <a:accent1><a:srgbClr val="4F81BD"/></a:accent1>
      <a:accent2><a:srgbClr val="C0504D"/></a:accent2>
      <a:accent3><a:srgbClr val="9BBB59"/></a:accent3>
      <a:accent4><a:srgbClr val="8064A2"/></a:accent4>
      <a:accent5><a:srgbClr val="4BACC6"/></a:accent5>
      <a:accent6><a:srgbClr val="F79646"/></a:accent6>
      <a:hlink><a:srgbClr val="0000FF"/></a:hlink>
      <a:folHlink><a:srgbClr val="800080"/></a:folHlink>
    </a:clrScheme>
    <a:fontScheme name="Office">
      <a:majorFont>
        <a:latin typeface="Calibri"/>
        <a:ea typeface=""/>
        <a:cs typeface=""/>
      </a:majorFont>
      <a:minorFont>
        <a:latin typeface="Calibri"/>
        <a:ea typeface=""/>
        <a:cs typeface=""/>
      </a:minorFont>
    </a:fontScheme>
    <a:fmtScheme name="Office">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="50000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="80000"/></a:schemeClr></a:solidFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="9525" cap="flat" cmpd="sng" algn="ctr"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>
        <a:ln w="25400" cap="flat" cmpd="sng" algn="ctr"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>
        <a:ln w="38100" cap="flat" cmpd="sng" algn="ctr"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>
      </a:lnStyleLst>
      <a:effectStyleLst>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
      </a:effectStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="95000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="90000"/></a:schemeClr></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
  </a:themeElements>
  <a:objectDefaults/>
  <a:extraClrSchemeLst/>
</a:theme>`
