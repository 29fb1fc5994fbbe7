package cli

import (
	"time"

	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/spf13/cobra"
)

// EngineFlags holds the command-line overrides for polling settings. Only
// flags the user actually set replace config values.
type EngineFlags struct {
	Size          int
	Template      string
	Interface     string
	Workers       int
	Interval      time.Duration
	FetchTimeout  time.Duration
	Transport     string
	MetricsListen string
}

// AddEngineFlags registers the polling override flags on a command.
func AddEngineFlags(cmd *cobra.Command, flags *EngineFlags) {
	cmd.Flags().IntVarP(&flags.Size, "size", "n", 0, "number of nodes in the fleet")
	cmd.Flags().StringVar(&flags.Template, "template", "", "hostname template with one integer verb (e.g. node%02d)")
	cmd.Flags().StringVarP(&flags.Interface, "interface", "i", "", "network interface to report (e.g. eth0)")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "number of parallel poll workers")
	cmd.Flags().DurationVar(&flags.Interval, "interval", 0, "pause between ticks (e.g. 3s, 500ms)")
	cmd.Flags().DurationVar(&flags.FetchTimeout, "fetch-timeout", 0, "per-node fetch deadline (e.g. 3s)")
	cmd.Flags().StringVar(&flags.Transport, "transport", "", "remote shell transport: ssh or exec")
	cmd.Flags().StringVar(&flags.MetricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9273)")
}

// applyEngineFlags copies the flags set on cmd onto cfg.
func applyEngineFlags(cmd *cobra.Command, flags *EngineFlags, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("size") {
		cfg.Fleet.Size = flags.Size
	}
	if set("template") {
		cfg.Fleet.Template = flags.Template
	}
	if set("interface") {
		cfg.Interface = flags.Interface
	}
	if set("workers") {
		cfg.Workers = flags.Workers
	}
	if set("interval") {
		cfg.Interval = flags.Interval
	}
	if set("fetch-timeout") {
		cfg.FetchTimeout = flags.FetchTimeout
	}
	if set("transport") {
		cfg.Transport.Kind = flags.Transport
	}
	if set("metrics-listen") {
		cfg.Metrics.Listen = flags.MetricsListen
	}
}

// loadConfig loads the config named by --config (or the default search
// path), applies flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, flags *EngineFlags) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if flags != nil {
		applyEngineFlags(cmd, flags, cfg)
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
