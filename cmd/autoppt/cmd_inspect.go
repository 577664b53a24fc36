package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zoharg2403/AutomatedPowerPoint/internal/deck"
	"github.com/zoharg2403/AutomatedPowerPoint/pptx"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "List the layouts and slide shapes of a template or deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := pptx.Open(args[0])
	if err != nil {
		return err
	}
	defer p.Close()

	out := cmd.OutOrStdout()
	layout := p.GetLayout()
	fmt.Fprintln(out, boxStyle.Render(fmt.Sprintf("%s\n%s %dx%d px, %d slides",
		headerStyle.Render(args[0]),
		labelStyle.Render("slide size"),
		pptx.EMUToPixel(layout.CX), pptx.EMUToPixel(layout.CY),
		p.GetSlideCount())))

	fmt.Fprintln(out, headerStyle.Render("Layouts"))
	for _, l := range deck.DescribeLayouts(p) {
		name := l.Name
		if l.Conventional != "" && l.Conventional != l.Name {
			name += " " + labelStyle.Render("("+l.Conventional+")")
		}
		if l.Conventional == "" {
			name += " " + warnStyle.Render("(beyond the nine conventional layouts)")
		}
		fmt.Fprintf(out, "%2d  %s\n", l.Ordinal, name)
		writeShapes(out, l.Placeholders)
	}

	for i := 0; i < p.GetSlideCount(); i++ {
		slide, err := p.GetSlide(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", headerStyle.Render(fmt.Sprintf("Slide %d", i+1)),
			labelStyle.Render(slide.GetLayout().Name))
		writeShapes(out, deck.DescribeSlide(slide))
	}
	return nil
}

func writeShapes(out io.Writer, shapes []deck.ShapeInfo) {
	for _, s := range shapes {
		var b strings.Builder
		fmt.Fprintf(&b, "      %-11s %-24s", s.Kind, s.Name)
		if s.Idx >= 0 {
			fmt.Fprintf(&b, " idx=%d", s.Idx)
		}
		if s.Type != "" {
			fmt.Fprintf(&b, " type=%s", s.Type)
		}
		if s.Width > 0 || s.Height > 0 {
			fmt.Fprintf(&b, " %s", labelStyle.Render(fmt.Sprintf("%dx%d px @ %d,%d",
				pptx.EMUToPixel(s.Width), pptx.EMUToPixel(s.Height),
				pptx.EMUToPixel(s.X), pptx.EMUToPixel(s.Y))))
		}
		if s.Text != "" {
			fmt.Fprintf(&b, " %q", strings.ReplaceAll(s.Text, "\n", " / "))
		}
		fmt.Fprintln(out, b.String())
	}
}
