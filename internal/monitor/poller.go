package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor/parsers"
	"golang.org/x/sync/errgroup"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultInterface    = "eth0"
	DefaultWorkers      = 8
	DefaultFetchTimeout = 3 * time.Second
)

// Options configures a Poller.
type Options struct {
	// Interface is the network device whose byte counters are reported.
	Interface string
	// Workers is the number of parallel fetch loops.
	Workers int
	// FetchTimeout bounds each node's fetch, read and close.
	FetchTimeout time.Duration
	Logger       *slog.Logger
	// Now is the clock used for sample timestamps. Tests replace it.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.Interface == "" {
		o.Interface = DefaultInterface
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Poller drives ticks over a Table. Each worker owns one contiguous range
// of the table for the Poller's whole life, so samples are written without
// locks; readers only ever see the copy published after a tick finishes.
type Poller struct {
	table   *Table
	fetcher Fetcher
	opts    Options
	ranges  []Range
	log     *slog.Logger

	// tickMu keeps ticks from overlapping.
	tickMu sync.Mutex
}

// NewPoller partitions table across opts.Workers workers.
func NewPoller(table *Table, fetcher Fetcher, opts Options) (*Poller, error) {
	opts.applyDefaults()

	if table == nil || table.Len() == 0 {
		return nil, errors.New(errors.ErrConfig, "The node table is empty", "Set fleet.size to at least 1.")
	}
	if fetcher == nil {
		return nil, errors.New(errors.ErrConfig, "No fetcher configured", "")
	}
	if opts.Workers < 1 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Worker count %d is too small", opts.Workers),
			"Set workers to at least 1.")
	}
	if opts.FetchTimeout < 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Fetch timeout %s is negative", opts.FetchTimeout),
			"Set fetch_timeout to a positive duration like 3s.")
	}

	ranges := Partition(table.Len(), opts.Workers)
	if err := ValidateRanges(ranges, table.Len()); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't split the fleet across workers", "")
	}

	return &Poller{
		table:   table,
		fetcher: fetcher,
		opts:    opts,
		ranges:  ranges,
		log:     opts.Logger,
	}, nil
}

// Ranges returns the per-worker node ranges.
func (p *Poller) Ranges() []Range {
	return append([]Range(nil), p.ranges...)
}

// Tick polls every node once and returns after all workers have finished.
// Per-node failures are recorded in the table, never returned. If ctx ends
// mid-tick, nodes not yet reached keep their previous state.
func (p *Poller) Tick(ctx context.Context) TickStats {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	stats := TickStats{Started: p.opts.Now()}
	var ok, failed atomic.Int64

	var g errgroup.Group
	for _, r := range p.ranges {
		g.Go(func() error {
			for i := r.Start; i < r.End; i++ {
				if ctx.Err() != nil {
					return nil
				}
				if p.pollNode(ctx, p.table.at(i)) {
					ok.Add(1)
				} else {
					failed.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	p.table.publish()

	stats.OK = int(ok.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = p.opts.Now().Sub(stats.Started)
	p.log.Debug("tick complete",
		"ok", stats.OK,
		"failed", stats.Failed,
		"duration", stats.Duration)
	return stats
}

// pollNode runs fetch, parse and rate update for one node and reports
// whether it succeeded. On failure the sample keeps its last good counters.
func (p *Poller) pollNode(ctx context.Context, s *NodeSample) bool {
	counters, schema, err := p.fetch(ctx, s.Node.Host)
	if err != nil {
		s.Valid = Error
		s.LastError = errors.Summary(err)
		p.log.Debug("node poll failed", "node", s.Node.Host, "error", err)
		return false
	}

	at := p.opts.Now()
	if s.HasBaseline() && counterReset(s.Cumulative, counters) {
		p.log.Debug("counters went backwards, treating as a reset", "node", s.Node.Host)
	}
	if s.Schema != 0 && s.Schema != schema {
		p.log.Debug("network schema changed", "node", s.Node.Host, "from", s.Schema, "to", schema)
	}

	derived := Derive(s.Cumulative, s.LastSampleTime, s.Derived, counters, at)
	*s = NodeSample{
		Node:           s.Node,
		Valid:          OK,
		Cumulative:     counters,
		Derived:        derived,
		LastSampleTime: at,
		Schema:         schema,
	}
	return true
}

// fetch reads one snapshot from host within the fetch timeout. The stream
// is always drained and closed; a close failure outranks a parse failure
// since a broken stream explains the bad content.
func (p *Poller) fetch(ctx context.Context, host string) (Counters, parsers.NetSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()

	rc, err := p.fetcher.Fetch(ctx, host)
	if err != nil {
		return Counters{}, 0, errors.Transport(host, err)
	}

	snap, parseErr := ParseSnapshot(rc, p.opts.Interface)
	_, _ = io.Copy(io.Discard, rc)
	if err := rc.Close(); err != nil {
		return Counters{}, 0, errors.Transport(host, err)
	}
	if es, ok := rc.(exitStatuser); ok && es.ExitStatus() != 0 {
		p.log.Debug("snapshot command exited non-zero", "node", host, "status", es.ExitStatus())
	}

	switch {
	case parseErr == nil:
		return snap.Counters(), snap.Schema, nil
	case isContentError(parseErr):
		return Counters{}, 0, errors.Format(host, parseErr)
	default:
		return Counters{}, 0, errors.Transport(host, parseErr)
	}
}

// Run ticks immediately and then every interval until ctx ends, calling
// onTick with the published samples after each tick. A tick that overruns
// the interval delays the next one instead of overlapping it.
func (p *Poller) Run(ctx context.Context, interval time.Duration, onTick func(TickStats, []NodeSample)) error {
	if interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll interval %s must be positive", interval),
			"Set interval to a duration like 3s.")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats := p.Tick(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if onTick != nil {
			onTick(stats, p.Snapshot())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Snapshot returns the samples as of the last completed tick.
func (p *Poller) Snapshot() []NodeSample {
	return p.table.Snapshot()
}

// Table returns the table the Poller writes to.
func (p *Poller) Table() *Table {
	return p.table
}
