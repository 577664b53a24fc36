package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zoharg2403/AutomatedPowerPoint/internal/config"
	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuildFlagsOverrideEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autoppt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /file\noutput_dir: /file-out\njobs: 2\n"), 0o644))
	t.Setenv("AUTOPPT_ROOT", "/env")
	t.Setenv("AUTOPPT_OUTPUT_DIR", "/env-out")

	c, err := config.Load(path)
	require.NoError(t, err)

	cmd := &cobra.Command{}
	registerBuildFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--root", "/flag", "--id", "A", "--id", "B", "--on-error", "skip"}))
	applyBuildFlags(cmd, c)

	assert.Equal(t, "/flag", c.Root)
	assert.Equal(t, "/env-out", c.OutputDir)
	assert.Equal(t, 2, c.Jobs)
	assert.Equal(t, []string{"A", "B"}, c.Identifiers)
	assert.Equal(t, config.OnErrorSkip, c.OnError)
	assert.Equal(t, 20, c.Runs.To)
}

func TestBuildInspectPreview(t *testing.T) {
	t.Setenv("AUTOPPT_ROOT", "")
	t.Setenv("AUTOPPT_OUTPUT_DIR", "")
	t.Setenv("AUTOPPT_TEMPLATE", "")
	t.Setenv("AUTOPPT_IDENTIFIERS", "")
	t.Setenv("AUTOPPT_LOG_LEVEL", "")

	root := t.TempDir()
	run := filepath.Join(root, "ABC123", "1")
	writePNG(t, filepath.Join(run, "Last Session Log Analysis", "figures", "uxStats.png"), 320, 240)
	writePNG(t, filepath.Join(run, "Data Collector Analysis", "figures", "a.png"), 200, 100)
	outDir := filepath.Join(root, "out")
	cfgPath := filepath.Join(root, "missing.yaml")

	out, err := execute(t, "--config", cfgPath, "build",
		"--root", root, "--id", "ABC123", "--from", "1", "--to", "1", "--output", outDir)
	require.NoError(t, err)
	deckPath := filepath.Join(outDir, "ABC123 - 1.pptx")
	assert.Contains(t, out, "wrote "+deckPath)

	p, err := pptx.Open(deckPath)
	require.NoError(t, err)
	assert.Equal(t, 3, p.GetSlideCount())

	out, err = execute(t, "--config", cfgPath, "inspect", deckPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Picture with Caption")
	assert.Contains(t, out, "Slide 3")
	assert.Contains(t, out, "a.png")

	previewDir := filepath.Join(root, "preview")
	out, err = execute(t, "--config", cfgPath, "preview", deckPath, previewDir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.FileExists(t, filepath.Join(previewDir, "ABC123 - 1 - slide 2.png"))
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoppt.yaml")
	out, err := execute(t, "--config", path, "init-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Figures, c.Figures)

	_, err = execute(t, "--config", path, "init-config", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "version")
	require.NoError(t, err)
	assert.Equal(t, "autoppt "+pptx.Version+"\n", out)
}

func TestRunInitConfigDirect(t *testing.T) {
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "nested", "c.yaml")
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runInitConfig(cmd, []string{path}))
	assert.FileExists(t, path)
}
