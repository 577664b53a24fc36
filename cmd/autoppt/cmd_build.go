package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoharg2403/AutomatedPowerPoint/internal/batch"
	"github.com/zoharg2403/AutomatedPowerPoint/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate one presentation per identifier and run",
	Long: `Walks {root}/{identifier}/{run} for every configured identifier and run
number and writes "{identifier} - {run}.pptx" to the output directory.

Flags override the configuration file and environment.

Example:
  autoppt build --root ./baseline --id NZK2021W41A001 --from 1 --to 5`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	registerBuildFlags(buildCmd)
}

func registerBuildFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("root", "", "Folder holding one directory per identifier")
	f.StringSlice("id", nil, "Identifier to build (repeatable, default: every sub-directory of root)")
	f.Int("from", 0, "First run number")
	f.Int("to", 0, "Last run number")
	f.StringP("output", "o", "", "Output directory")
	f.String("template", "", "Template .pptx whose layouts are used")
	f.String("on-error", "", "Failure policy: abort or skip")
	f.IntP("jobs", "j", 0, "Work units built in parallel")
	f.Bool("open", false, "Open each presentation after saving")
	f.Bool("thumbnail", false, "Embed a first-slide thumbnail")
	f.Bool("debug-shapes", false, "Log the shapes of every slide")
}

// applyBuildFlags copies the flags the user set onto c.
func applyBuildFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("root") {
		c.Root, _ = f.GetString("root")
	}
	if f.Changed("id") {
		c.Identifiers, _ = f.GetStringSlice("id")
	}
	if f.Changed("from") {
		c.Runs.From, _ = f.GetInt("from")
	}
	if f.Changed("to") {
		c.Runs.To, _ = f.GetInt("to")
	}
	if f.Changed("output") {
		c.OutputDir, _ = f.GetString("output")
	}
	if f.Changed("template") {
		c.Template, _ = f.GetString("template")
	}
	if f.Changed("on-error") {
		c.OnError, _ = f.GetString("on-error")
	}
	if f.Changed("jobs") {
		c.Jobs, _ = f.GetInt("jobs")
	}
	if f.Changed("open") {
		c.OpenAfterSave, _ = f.GetBool("open")
	}
	if f.Changed("thumbnail") {
		c.Thumbnail, _ = f.GetBool("thumbnail")
	}
	if f.Changed("debug-shapes") {
		c.DebugShapes, _ = f.GetBool("debug-shapes")
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	applyBuildFlags(cmd, cfg)

	driver, err := batch.NewDriver(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := driver.Run(ctx)
	if res != nil {
		out := cmd.OutOrStdout()
		for _, path := range res.Written {
			fmt.Fprintf(out, "wrote %s\n", path)
		}
		for _, f := range res.Failed {
			fmt.Fprintf(out, "failed %s: %v\n", f.Unit, f.Err)
		}
	}
	if err != nil {
		logger.Error("batch aborted", zap.Error(err))
		return err
	}
	return nil
}
