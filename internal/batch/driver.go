// Package batch walks the configured work units, locates their figures by
// path convention and writes one presentation per unit.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zoharg2403/AutomatedPowerPoint/internal/config"
	"github.com/zoharg2403/AutomatedPowerPoint/internal/deck"
)

// Failure records a work unit that did not produce a file.
type Failure struct {
	Unit WorkUnit
	Err  error
}

// Result summarizes a batch run.
type Result struct {
	Written []string  // output paths, in work unit order
	Failed  []Failure // in work unit order
}

// Driver runs the batch described by a configuration.
type Driver struct {
	cfg      *config.Config
	logger   *zap.Logger
	template []byte
	opener   func(path string) error
}

// NewDriver validates cfg and loads the template once.
func NewDriver(cfg *config.Config, logger *zap.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{cfg: cfg, logger: logger, opener: deck.OpenFile}
	if cfg.Template != "" {
		data, err := os.ReadFile(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		d.template = data
	}
	return d, nil
}

// Units returns the work units of the batch. With no configured
// identifiers, every sub-directory of the root folder is one identifier.
func (d *Driver) Units() ([]WorkUnit, error) {
	ids := d.cfg.Identifiers
	if len(ids) == 0 {
		var err error
		if ids, err = DiscoverIdentifiers(d.cfg.Root); err != nil {
			return nil, err
		}
	}
	return Units(ids, d.cfg.RunNumbers()), nil
}

// OutputPath is where unit u is written.
func (d *Driver) OutputPath(u WorkUnit) string {
	return filepath.Join(d.cfg.OutputDir, u.FileName())
}

// Run builds every work unit. With on_error "abort" the first failure stops
// scheduling and is returned; files already written stay on disk. With
// "skip" failures are collected in the result and Run returns nil.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	units, err := d.Units()
	if err != nil {
		return nil, err
	}
	d.logger.Info("batch started",
		zap.Int("units", len(units)),
		zap.Int("jobs", d.cfg.Jobs),
		zap.String("root", d.cfg.Root))

	written := make([]string, len(units))
	failed := make([]error, len(units))
	abort := d.cfg.OnError == config.OnErrorAbort

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Jobs)

	var mu sync.Mutex
	for i, u := range units {
		if gctx.Err() != nil {
			break
		}
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := d.BuildUnit(u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[i] = err
				if abort {
					d.logger.Error("work unit failed", zap.Stringer("unit", u), zap.Error(err))
					return fmt.Errorf("%s: %w", u, err)
				}
				d.logger.Warn("skipping work unit", zap.Stringer("unit", u), zap.Error(err))
				return nil
			}
			written[i] = path
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	res := &Result{}
	for i, u := range units {
		if written[i] != "" {
			res.Written = append(res.Written, written[i])
		}
		if failed[i] != nil {
			res.Failed = append(res.Failed, Failure{Unit: u, Err: failed[i]})
		}
	}
	d.logger.Info("batch finished",
		zap.Int("written", len(res.Written)),
		zap.Int("failed", len(res.Failed)))
	return res, runErr
}

// BuildUnit builds and saves one presentation. Nothing is written unless
// every slide could be built.
func (d *Driver) BuildUnit(u WorkUnit) (string, error) {
	log := d.logger.With(zap.String("identifier", u.Identifier), zap.Int("run", u.Run))
	log.Info("building presentation")

	dk, err := deck.New(d.template,
		deck.WithLogger(log),
		deck.WithDebugShapes(d.cfg.DebugShapes),
		deck.WithThumbnail(d.cfg.Thumbnail),
		deck.WithTitle(u.String()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to open template: %w", err)
	}

	if _, err := dk.AddTitleSlide(u.Identifier, fmt.Sprintf("Run %d", u.Run)); err != nil {
		return "", err
	}

	dir := u.Dir(d.cfg.Root)
	if _, err := dk.AddBlankSlide(filepath.Join(dir, d.cfg.Figures.UXStats)); err != nil {
		return "", err
	}

	figures, err := ListFigures(filepath.Join(dir, d.cfg.Figures.DataCollectorDir), d.cfg.Figures.Extension)
	if err != nil {
		return "", err
	}
	for _, fig := range figures {
		if _, err := dk.AddBlankSlide(fig); err != nil {
			return "", err
		}
	}

	path := d.OutputPath(u)
	if err := dk.Save(path); err != nil {
		return "", err
	}

	if d.cfg.OpenAfterSave {
		if err := d.opener(path); err != nil {
			log.Warn("could not open presentation", zap.String("path", path), zap.Error(err))
		}
	}
	return path, nil
}
