package batch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zoharg2403/AutomatedPowerPoint/internal/config"
	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// seedUnit lays out a complete work unit with the given data collector figures.
func seedUnit(t *testing.T, root, id string, run int, files ...string) {
	t.Helper()
	u := WorkUnit{Identifier: id, Run: run}
	dir := u.Dir(root)
	writePNG(t, filepath.Join(dir, "Last Session Log Analysis", "figures", "uxStats.png"), 320, 240)
	figDir := filepath.Join(dir, "Data Collector Analysis", "figures")
	require.NoError(t, os.MkdirAll(figDir, 0o755))
	for _, name := range files {
		if filepath.Ext(name) == ".png" {
			writePNG(t, filepath.Join(figDir, name), 200, 100)
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(figDir, name), []byte("not a figure"), 0o644))
	}
}

func testConfig(root string, ids ...string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Root = root
	cfg.Identifiers = ids
	cfg.Runs = config.RunsConfig{From: 1, To: 1}
	cfg.OutputDir = filepath.Join(root, "out")
	return cfg
}

type slideSummary struct {
	Layout   string
	Text     string
	Pictures []string
}

func summarize(t *testing.T, path string) []slideSummary {
	t.Helper()
	p, err := pptx.Open(path)
	require.NoError(t, err)
	var out []slideSummary
	for i := 0; i < p.GetSlideCount(); i++ {
		s, err := p.GetSlide(i)
		require.NoError(t, err)
		sum := slideSummary{Layout: s.GetLayout().Name, Text: s.ExtractText()}
		for _, pic := range s.Pictures() {
			sum.Pictures = append(sum.Pictures, pic.GetDescription())
		}
		out = append(out, sum)
	}
	return out
}

func TestBuildUnitFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "ABC123", 1, "a.png", "b.txt")

	d, err := NewDriver(testConfig(root, "ABC123"), zap.NewNop())
	require.NoError(t, err)
	res, err := d.Run(context.Background())
	require.NoError(t, err)

	want := filepath.Join(root, "out", "ABC123 - 1.pptx")
	assert.Equal(t, []string{want}, res.Written)
	assert.Empty(t, res.Failed)

	wantSlides := []slideSummary{
		{Layout: "Title Slide", Text: "ABC123\nRun 1"},
		{Layout: "Blank", Pictures: []string{"uxStats.png"}},
		{Layout: "Blank", Pictures: []string{"a.png"}},
	}
	if diff := cmp.Diff(wantSlides, summarize(t, want)); diff != "" {
		t.Errorf("slides (-want +got):\n%s", diff)
	}
}

func TestMissingFiguresDirIsFatal(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "ABC123", 1, "a.png")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "ABC123", "1", "Data Collector Analysis", "figures")))

	cfg := testConfig(root, "ABC123")
	cfg.Runs.To = 2
	seedUnit(t, root, "ABC123", 2, "a.png")

	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)
	res, err := d.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFiguresDir)

	assert.Empty(t, res.Written)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, WorkUnit{Identifier: "ABC123", Run: 1}, res.Failed[0].Unit)
	assert.NoFileExists(t, filepath.Join(root, "out", "ABC123 - 1.pptx"))
	assert.NoFileExists(t, filepath.Join(root, "out", "ABC123 - 2.pptx"))
}

func TestMissingUXStatsIsFatal(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "ABC123", 1)
	require.NoError(t, os.Remove(filepath.Join(root, "ABC123", "1", "Last Session Log Analysis", "figures", "uxStats.png")))

	d, err := NewDriver(testConfig(root, "ABC123"), zap.NewNop())
	require.NoError(t, err)
	_, err = d.Run(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(root, "out", "ABC123 - 1.pptx"))
}

func TestSkipModeContinues(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "GOOD", 1, "a.png")
	seedUnit(t, root, "ALSO", 1)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "BAD", "1"), 0o755))

	core, logs := observer.New(zapcore.InfoLevel)
	cfg := testConfig(root, "GOOD", "BAD", "ALSO")
	cfg.OnError = config.OnErrorSkip

	d, err := NewDriver(cfg, zap.New(core))
	require.NoError(t, err)
	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "out", "GOOD - 1.pptx"),
		filepath.Join(root, "out", "ALSO - 1.pptx"),
	}, res.Written)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "BAD", res.Failed[0].Unit.Identifier)
	assert.Equal(t, 1, logs.FilterMessage("skipping work unit").Len())

	summary := logs.FilterMessage("batch finished").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["written"])
	assert.Equal(t, int64(1), summary[0].ContextMap()["failed"])

	assert.Len(t, summarize(t, res.Written[1]), 2)
}

func TestParallelJobs(t *testing.T) {
	root := t.TempDir()
	var ids []string
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		seedUnit(t, root, id, 1, "x.png", "y.png")
		ids = append(ids, id)
	}
	cfg := testConfig(root, ids...)
	cfg.Jobs = 3

	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)
	res, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Written, 5)
	for i, id := range ids {
		assert.Equal(t, filepath.Join(root, "out", id+" - 1.pptx"), res.Written[i])
		assert.Len(t, summarize(t, res.Written[i]), 4)
	}
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "A", 1, "x.png")

	d, err := NewDriver(testConfig(root, "A"), zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Written)
}

func TestDiscoveredIdentifiers(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "ZED", 1)
	seedUnit(t, root, "ALPHA", 1)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))

	ids, err := DiscoverIdentifiers(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALPHA", "ZED"}, ids)

	cfg := testConfig(root)
	cfg.OutputDir = t.TempDir()
	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)
	units, err := d.Units()
	require.NoError(t, err)
	assert.Equal(t, []WorkUnit{{"ALPHA", 1}, {"ZED", 1}}, units)
}

func TestTemplateDriver(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "T", 1)

	tmpl := pptx.New()
	tmpl.GetLayout().SetLayout(pptx.LayoutScreen16x9)
	tmplPath := filepath.Join(root, "template.pptx")
	require.NoError(t, tmpl.Save(tmplPath))

	cfg := testConfig(root, "T")
	cfg.Template = tmplPath
	cfg.Thumbnail = true
	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)

	path, err := d.BuildUnit(WorkUnit{Identifier: "T", Run: 1})
	require.NoError(t, err)
	p, err := pptx.Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(12192000), p.GetLayout().CX)
	assert.Equal(t, "T - 1", p.GetDocumentProperties().Title)
}

func TestMissingTemplate(t *testing.T) {
	cfg := testConfig(t.TempDir(), "A")
	cfg.Template = filepath.Join(t.TempDir(), "none.pptx")
	_, err := NewDriver(cfg, nil)
	assert.Error(t, err)
}

func TestOpenAfterSave(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "A", 1)
	cfg := testConfig(root, "A")
	cfg.OpenAfterSave = true

	d, err := NewDriver(cfg, zap.NewNop())
	require.NoError(t, err)
	var opened []string
	d.opener = func(path string) error {
		opened = append(opened, path)
		return nil
	}
	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Written, opened)
}

// readdirOrder lists dir the way the OS returns it, keeping names ending in ext.
func readdirOrder(t *testing.T, dir, ext string) []string {
	t.Helper()
	f, err := os.Open(dir)
	require.NoError(t, err)
	defer f.Close()
	names, err := f.Readdirnames(-1)
	require.NoError(t, err)
	var out []string
	for _, name := range names {
		if strings.HasSuffix(name, ext) {
			out = append(out, name)
		}
	}
	return out
}

func TestListFigures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.txt", "c.PNG", "dpng"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	got, err := ListFigures(dir, "png")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "dpng")}, got)

	_, err = ListFigures(filepath.Join(dir, "missing"), "png")
	assert.ErrorIs(t, err, ErrFiguresDir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListFiguresKeepsDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.png", "alpha.png", "m.png", "b.png", "notes.txt", "k.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := ListFigures(dir, "png")
	require.NoError(t, err)
	var names []string
	for _, path := range got {
		names = append(names, filepath.Base(path))
	}
	assert.Equal(t, readdirOrder(t, dir, "png"), names)
}

func TestDeckFollowsDirectoryOrder(t *testing.T) {
	root := t.TempDir()
	seedUnit(t, root, "ABC123", 1, "zeta.png", "alpha.png", "m.png", "b.png")

	d, err := NewDriver(testConfig(root, "ABC123"), zap.NewNop())
	require.NoError(t, err)
	path, err := d.BuildUnit(WorkUnit{Identifier: "ABC123", Run: 1})
	require.NoError(t, err)

	var got []string
	for _, s := range summarize(t, path)[2:] {
		got = append(got, s.Pictures...)
	}
	figDir := filepath.Join(root, "ABC123", "1", "Data Collector Analysis", "figures")
	assert.Equal(t, readdirOrder(t, figDir, "png"), got)
}

func TestUnitsOrder(t *testing.T) {
	units := Units([]string{"X", "Y"}, []int{1, 2})
	assert.Equal(t, []WorkUnit{{"X", 1}, {"X", 2}, {"Y", 1}, {"Y", 2}}, units)
	assert.Equal(t, "X - 2.pptx", units[1].FileName())
	assert.Equal(t, filepath.Join("root", "Y", "1"), units[2].Dir("root"))
}
