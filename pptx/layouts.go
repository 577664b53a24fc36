package pptx

import "fmt"

// Built-in layout set. It follows the sequence used by the themes shipped
// with PowerPoint, so layout ordinals 0-8 mean the same thing here as in
// any conventional template.

func ph(t PlaceholderType, idx int, name string) *LayoutPlaceholder {
	return &LayoutPlaceholder{Type: t, Idx: idx, Name: name}
}

func phAt(t PlaceholderType, idx int, name string, x, y, w, h int64) *LayoutPlaceholder {
	return &LayoutPlaceholder{Type: t, Idx: idx, Name: name, OffsetX: x, OffsetY: y, Width: w, Height: h, hasXfrm: true}
}

// footerPlaceholders are present on every built-in layout and inherit
// their geometry from the master.
func footerPlaceholders(firstID int) []*LayoutPlaceholder {
	return []*LayoutPlaceholder{
		ph(PlaceholderDate, 10, fmt.Sprintf("Date Placeholder %d", firstID)),
		ph(PlaceholderFooter, 11, fmt.Sprintf("Footer Placeholder %d", firstID+1)),
		ph(PlaceholderSlideNum, 12, fmt.Sprintf("Slide Number Placeholder %d", firstID+2)),
	}
}

type builtinLayout struct {
	name         string
	typ          string
	placeholders []*LayoutPlaceholder
}

func builtinLayouts() []builtinLayout {
	return []builtinLayout{
		{"Title Slide", "title", append([]*LayoutPlaceholder{
			phAt(PlaceholderCtrTitle, 0, "Title 1", 685800, 2130425, 7772400, 1470025),
			phAt(PlaceholderSubTitle, 1, "Subtitle 2", 1371600, 3886200, 6400800, 1752600),
		}, footerPlaceholders(3)...)},
		{"Title and Content", "obj", append([]*LayoutPlaceholder{
			ph(PlaceholderTitle, 0, "Title 1"),
			ph(PlaceholderObject, 1, "Content Placeholder 2"),
		}, footerPlaceholders(3)...)},
		{"Section Header", "secHead", append([]*LayoutPlaceholder{
			phAt(PlaceholderTitle, 0, "Title 1", 722313, 4406900, 7772400, 1362075),
			phAt(PlaceholderBody, 1, "Text Placeholder 2", 722313, 2906713, 7772400, 1500187),
		}, footerPlaceholders(3)...)},
		{"Two Content", "twoObj", append([]*LayoutPlaceholder{
			ph(PlaceholderTitle, 0, "Title 1"),
			phAt(PlaceholderObject, 1, "Content Placeholder 2", 457200, 1600200, 4038600, 4525963),
			phAt(PlaceholderObject, 2, "Content Placeholder 3", 4648200, 1600200, 4038600, 4525963),
		}, footerPlaceholders(4)...)},
		{"Comparison", "twoTxTwoObj", append([]*LayoutPlaceholder{
			ph(PlaceholderTitle, 0, "Title 1"),
			phAt(PlaceholderBody, 1, "Text Placeholder 2", 457200, 1535113, 4040188, 639762),
			phAt(PlaceholderObject, 2, "Content Placeholder 3", 457200, 2174875, 4040188, 3951288),
			phAt(PlaceholderBody, 3, "Text Placeholder 4", 4645025, 1535113, 4041775, 639762),
			phAt(PlaceholderObject, 4, "Content Placeholder 5", 4645025, 2174875, 4041775, 3951288),
		}, footerPlaceholders(6)...)},
		{"Title Only", "titleOnly", append([]*LayoutPlaceholder{
			ph(PlaceholderTitle, 0, "Title 1"),
		}, footerPlaceholders(2)...)},
		{"Blank", "blank", footerPlaceholders(1)},
		{"Content with Caption", "objTx", append([]*LayoutPlaceholder{
			phAt(PlaceholderTitle, 0, "Title 1", 457200, 273050, 3008313, 1162050),
			phAt(PlaceholderObject, 1, "Content Placeholder 2", 3575050, 273050, 5111750, 5853113),
			phAt(PlaceholderBody, 2, "Text Placeholder 3", 457200, 1435100, 3008313, 4691063),
		}, footerPlaceholders(4)...)},
		{"Picture with Caption", "picTx", append([]*LayoutPlaceholder{
			phAt(PlaceholderTitle, 0, "Title 1", 1792288, 4800600, 5486400, 566738),
			phAt(PlaceholderPicture, 1, "Picture Placeholder 2", 1792288, 612775, 5486400, 4114800),
			phAt(PlaceholderBody, 2, "Text Placeholder 3", 1792288, 5367338, 5486400, 804862),
		}, footerPlaceholders(4)...)},
	}
}

// defaultSlideMaster builds the built-in master with its nine layouts.
func defaultSlideMaster() *SlideMaster {
	sm := &SlideMaster{
		Name:     "Office Theme",
		partName: "ppt/slideMasters/slideMaster1.xml",
		placeholders: []*LayoutPlaceholder{
			phAt(PlaceholderTitle, 0, "Title Placeholder 1", 457200, 274638, 8229600, 1143000),
			phAt(PlaceholderBody, 1, "Text Placeholder 2", 457200, 1600200, 8229600, 4525963),
			phAt(PlaceholderDate, 2, "Date Placeholder 3", 457200, 6356350, 2133600, 365125),
			phAt(PlaceholderFooter, 3, "Footer Placeholder 4", 3124200, 6356350, 2895600, 365125),
			phAt(PlaceholderSlideNum, 4, "Slide Number Placeholder 5", 6553200, 6356350, 2133600, 365125),
		},
	}
	for i, bl := range builtinLayouts() {
		sm.SlideLayouts = append(sm.SlideLayouts, &SlideLayout{
			Name:         bl.name,
			Type:         bl.typ,
			index:        i,
			partName:     fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1),
			master:       sm,
			placeholders: bl.placeholders,
		})
	}
	return sm
}
