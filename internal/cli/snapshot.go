package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/dashboard"
	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor"
	"github.com/spf13/cobra"
)

// DefaultSnapshotSamples is two ticks: rates need a baseline.
const DefaultSnapshotSamples = 2

var (
	snapshotFlags   EngineFlags
	snapshotSamples int
	snapshotJSON    bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Poll the fleet a few times and print a table",
	Long: `Poll every node, wait one interval, poll again, then print one row per
node and exit. CPU and network rates need two polls, so --samples 1 only
reports memory.

Examples:
  ctop snapshot
  ctop snapshot --samples 3 --interval 1s
  ctop snapshot --json | jq '.data.nodes[] | select(.state != "ok")'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSnapshot(cmd, &snapshotFlags, snapshotSamples, snapshotJSON)
		if err != nil && snapshotJSON {
			if werr := WriteJSONFromError(cmd.OutOrStdout(), err); werr != nil {
				return werr
			}
		}
		return err
	},
}

func init() {
	AddEngineFlags(snapshotCmd, &snapshotFlags)
	snapshotCmd.Flags().IntVar(&snapshotSamples, "samples", DefaultSnapshotSamples, "number of ticks to run before printing")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(snapshotCmd)
}

// SnapshotReport is the --json payload of ctop snapshot.
type SnapshotReport struct {
	Started  time.Time              `json:"started"`
	Duration string                 `json:"duration"`
	OK       int                    `json:"ok"`
	Failed   int                    `json:"failed"`
	Nodes    []dashboard.NodeRecord `json:"nodes"`
}

func runSnapshot(cmd *cobra.Command, flags *EngineFlags, samples int, asJSON bool) error {
	if samples < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--samples must be at least 1, got %d", samples),
			"Use --samples 2 to get CPU and network rates.")
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, false)
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

	stats, err := collect(cmd.Context(), eng.poller, cfg, samples)
	if err != nil {
		return err
	}
	return writeSnapshot(cmd.OutOrStdout(), stats, eng.poller.Snapshot(), asJSON)
}

// collect runs samples ticks spaced by the configured interval and returns
// the last tick's stats.
func collect(ctx context.Context, poller *monitor.Poller, cfg *config.Config, samples int) (monitor.TickStats, error) {
	var stats monitor.TickStats
	for i := 0; i < samples; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}
		stats = poller.Tick(ctx)
	}
	return stats, ctx.Err()
}

func writeSnapshot(w io.Writer, stats monitor.TickStats, samples []monitor.NodeSample, asJSON bool) error {
	if asJSON {
		return WriteJSONSuccess(w, SnapshotReport{
			Started:  stats.Started,
			Duration: stats.Duration.Round(time.Millisecond).String(),
			OK:       stats.OK,
			Failed:   stats.Failed,
			Nodes:    dashboard.Records(samples),
		})
	}

	if _, err := fmt.Fprintln(w, dashboard.RenderTable(samples)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, dashboard.TickLine(stats, samples))
	return err
}
