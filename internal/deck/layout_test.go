package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

func TestParseLayoutOrdinals(t *testing.T) {
	names := []string{
		"Title",
		"Title and Content",
		"Section Header",
		"Two Content",
		"Comparison",
		"Title Only",
		"Blank",
		"Content with Caption",
		"Picture with Caption",
	}
	seen := make(map[int]bool)
	for want, name := range names {
		l, err := ParseLayout(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, l.Ordinal(), name)
		assert.Equal(t, name, l.String())
		assert.False(t, seen[l.Ordinal()], "ordinal %d reused", l.Ordinal())
		seen[l.Ordinal()] = true
	}
	assert.Len(t, Layouts(), 9)
}

func TestParseLayoutUnknown(t *testing.T) {
	for _, name := range []string{"", "title", "Title Slide", "Picture with caption", "Blank "} {
		_, err := ParseLayout(name)
		assert.ErrorIs(t, err, ErrUnknownLayout, "%q", name)
	}
	assert.Equal(t, "Layout(12)", Layout(12).String())
}

func TestResolveAgainstBuiltinSet(t *testing.T) {
	p := pptx.New()
	for _, l := range Layouts() {
		sl, err := l.Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, l.Ordinal(), sl.GetIndex())
	}
	sl, err := Resolve(p, "Picture with Caption")
	require.NoError(t, err)
	assert.Equal(t, "Picture with Caption", sl.Name)

	_, err = Resolve(p, "Nope")
	assert.ErrorIs(t, err, ErrUnknownLayout)
	_, err = Layout(-1).Resolve(p)
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestResolveMissingLayout(t *testing.T) {
	p := pptx.New()
	p.GetSlideMasters()[0].SlideLayouts = p.GetSlideLayouts()[:3]
	_, err := LayoutBlank.Resolve(p)
	assert.ErrorIs(t, err, ErrLayoutMissing)
	_, err = LayoutSectionHeader.Resolve(p)
	assert.NoError(t, err)
}
