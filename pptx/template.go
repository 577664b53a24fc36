package pptx

import (
	"path"
	"strings"
)

// templatePackage is the closure of package parts reachable from a
// template's slide master: the master itself, its layouts, the theme and
// whatever media they reference, together with their relationship parts.
type templatePackage struct {
	parts        map[string][]byte
	contentTypes map[string]string
	themePart    string
}

func newTemplatePackage() *templatePackage {
	return &templatePackage{
		parts:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// has reports whether the template carries a part with the given name.
// A nil template has no parts.
func (t *templatePackage) has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.parts[name]
	return ok
}

// partNames returns the part names in sorted order.
func (t *templatePackage) partNames() []string {
	if t == nil {
		return nil
	}
	return sortedKeys(t.parts)
}

// contentTypeIndex resolves part content types from [Content_Types].xml.
type contentTypeIndex struct {
	defaults  map[string]string // extension -> content type
	overrides map[string]string // part name (no leading slash) -> content type
}

func (c contentTypeIndex) lookup(part string) string {
	if ct, ok := c.overrides[part]; ok {
		return ct
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(part), "."))
	if ct, ok := c.defaults[ext]; ok {
		return ct
	}
	if strings.HasSuffix(part, ".xml") {
		return "application/xml"
	}
	return guessMimeFromPath(part)
}

// resolvePartName resolves a relationship target relative to the part that
// owns the relationship. Absolute targets start at the package root.
func resolvePartName(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}
