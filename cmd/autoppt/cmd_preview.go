package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

var (
	previewWidth   int
	previewFont    string
	previewOutline bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <deck.pptx> <out-dir>",
	Short: "Render every slide of a deck to PNG",
	Args:  cobra.ExactArgs(2),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", 960, "Image width in pixels")
	previewCmd.Flags().StringVar(&previewFont, "font", "", "TrueType/OpenType font for slide text")
	previewCmd.Flags().BoolVar(&previewOutline, "outline", false, "Outline every shape")
}

func runPreview(cmd *cobra.Command, args []string) error {
	p, err := pptx.Open(args[0])
	if err != nil {
		return err
	}
	defer p.Close()

	outDir := args[1]
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := pptx.DefaultRenderOptions()
	opts.Width = previewWidth
	opts.FontFile = previewFont
	opts.Outline = previewOutline

	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	base = strings.ReplaceAll(base, "%", "%%")
	paths, err := p.SaveSlidesAsImages(filepath.Join(outDir, base+" - slide %d.png"), opts)
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	if err != nil {
		return err
	}
	logger.Info("preview rendered", zap.String("deck", args[0]), zap.Int("slides", len(paths)))
	return nil
}
