package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor"
	"github.com/rileyhilliard/ctop/pkg/sshutil"
	"golang.org/x/term"
)

// engine is the fleet, fetcher and poller built from one config.
type engine struct {
	poller *monitor.Poller
	pool   *monitor.Pool
}

// newEngine builds the fleet table and poller for cfg. Close must be
// called to release pooled SSH connections.
func newEngine(cfg *config.Config, log *slog.Logger) (*engine, error) {
	nodes, err := monitor.NewFleet(cfg.Fleet.Size, cfg.Fleet.FirstID, cfg.Fleet.Template)
	if err != nil {
		return nil, err
	}

	e := &engine{}
	var fetcher monitor.Fetcher
	switch cfg.Transport.Kind {
	case config.TransportExec:
		fetcher = monitor.NewExecFetcher(cfg.Transport.Command)
	default:
		e.pool = monitor.NewPool(monitor.SSHDialer(sshutil.Options{
			User:                  cfg.Transport.User,
			StrictHostKeyChecking: cfg.Transport.StrictHostKey,
			Timeout:               cfg.EffectiveDialTimeout(),
			Logger:                log,
		}))
		fetcher = monitor.NewSSHFetcher(e.pool)
	}

	poller, err := monitor.NewPoller(monitor.NewTable(nodes), fetcher, monitor.Options{
		Interface:    cfg.Interface,
		Workers:      cfg.Workers,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       log,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.poller = poller

	log.Debug("engine ready",
		"nodes", len(nodes),
		"workers", len(poller.Ranges()),
		"transport", cfg.Transport.Kind,
		"interface", cfg.Interface)
	return e, nil
}

// Close drops pooled connections and the shared agent connection.
func (e *engine) Close() {
	if e.pool != nil {
		e.pool.Close()
		sshutil.CloseAgent()
	}
}

// newLogger builds the run's logger. With a log file configured records go
// there; otherwise they go to stderr, unless the dashboard owns the
// terminal, in which case they are discarded.
func newLogger(cfg *config.Config, interactive bool) (*slog.Logger, func() error, error) {
	if cfg.Log.File != "" {
		return logger.NewFile(cfg.Log.File, cfg.Log.Level, cfg.Log.Format)
	}
	if interactive {
		return logger.Noop(), func() error { return nil }, nil
	}
	return logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format), func() error { return nil }, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
