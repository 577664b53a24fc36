package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrFiguresDir is returned when a work unit's figures directory cannot be listed.
var ErrFiguresDir = errors.New("figures directory not readable")

// WorkUnit is one (identifier, run) pair. Each unit produces one file.
type WorkUnit struct {
	Identifier string
	Run        int
}

func (u WorkUnit) String() string {
	return fmt.Sprintf("%s - %d", u.Identifier, u.Run)
}

// FileName is the name of the file the unit produces.
func (u WorkUnit) FileName() string {
	return u.String() + ".pptx"
}

// Dir is the unit's input folder below root.
func (u WorkUnit) Dir(root string) string {
	return filepath.Join(root, u.Identifier, strconv.Itoa(u.Run))
}

// Units pairs every identifier with every run number, identifier-major.
func Units(identifiers []string, runs []int) []WorkUnit {
	var units []WorkUnit
	for _, id := range identifiers {
		for _, n := range runs {
			units = append(units, WorkUnit{Identifier: id, Run: n})
		}
	}
	return units
}

// DiscoverIdentifiers returns the names of the sub-directories of root,
// sorted. Hidden directories are skipped.
func DiscoverIdentifiers(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list root folder: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// ListFigures returns the files in dir whose names end with ext, in the
// order the directory read returns them. Sub-directories are skipped.
func ListFigures(dir, ext string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFiguresDir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFiguresDir, err)
	}

	var paths []string
	for _, name := range names {
		if !strings.HasSuffix(name, ext) {
			continue
		}
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}
