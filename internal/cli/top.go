package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/dashboard"
	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/rileyhilliard/ctop/internal/exporter"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// tickFunc observes a finished tick.
type tickFunc func(monitor.TickStats, []monitor.NodeSample)

// observedSource runs onTick after every dashboard-driven tick.
type observedSource struct {
	*monitor.Poller
	onTick tickFunc
}

func (s observedSource) Tick(ctx context.Context) monitor.TickStats {
	stats := s.Poller.Tick(ctx)
	if ctx.Err() == nil {
		s.onTick(stats, s.Snapshot())
	}
	return stats
}

// runTop polls the fleet until the context ends or the user quits. The
// dashboard is shown when stdout is a terminal and plain is false;
// otherwise one status line is printed per tick.
func runTop(cmd *cobra.Command, flags *EngineFlags, plain bool) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := !plain && isTerminal(out)

	log, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.SetDefault(log)

	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	onTick := tickLogger(log)
	if cfg.Metrics.Listen != "" {
		exp := exporter.New(eng.poller)
		logTick := onTick
		onTick = func(stats monitor.TickStats, samples []monitor.NodeSample) {
			exp.RecordTick(stats, samples)
			logTick(stats, samples)
		}
		g.Go(func() error {
			if err := exp.Serve(ctx, cfg.Metrics.Listen, log); err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig,
					fmt.Sprintf("Couldn't serve metrics on %s", cfg.Metrics.Listen),
					"Pick a free address for metrics.listen, or leave it empty.")
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		if interactive {
			return runDashboard(ctx, cfg, observedSource{Poller: eng.poller, onTick: onTick})
		}
		return runPlain(ctx, eng.poller, cfg, out, onTick)
	})

	return g.Wait()
}

// runDashboard shows the full-screen dashboard until the user quits.
func runDashboard(ctx context.Context, cfg *config.Config, source dashboard.Source) error {
	model := dashboard.New(ctx, source, dashboard.Options{
		Interval:     cfg.Interval,
		NICFullScale: float64(cfg.Display.NICFullScale),
		Columns:      cfg.Display.Columns,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard stopped unexpectedly",
			"Try --plain if the terminal doesn't support full-screen mode.")
	}
	return nil
}

// runPlain prints dashboard.TickLine to out after every tick.
func runPlain(ctx context.Context, poller *monitor.Poller, cfg *config.Config, out io.Writer, onTick tickFunc) error {
	return poller.Run(ctx, cfg.Interval, func(stats monitor.TickStats, samples []monitor.NodeSample) {
		onTick(stats, samples)
		fmt.Fprintln(out, dashboard.TickLine(stats, samples))
	})
}

// tickLogger logs each tick at debug level and each failing node at warn
// the first time it fails.
func tickLogger(log *slog.Logger) tickFunc {
	failing := make(map[int]bool)
	return func(stats monitor.TickStats, samples []monitor.NodeSample) {
		log.Debug("tick",
			"ok", stats.OK,
			"failed", stats.Failed,
			"took", stats.Duration)

		for _, s := range samples {
			down := s.Valid == monitor.Error
			if down && !failing[s.Node.ID] {
				log.Warn("node failing", "node", s.Node.Host, "error", s.LastError)
			}
			if !down && failing[s.Node.ID] {
				log.Info("node recovered", "node", s.Node.Host)
			}
			failing[s.Node.ID] = down
		}
	}
}
