package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// Persistent flags shared by every command.
var (
	configFlag   string
	logLevelFlag string
	noColorFlag  bool
)

var (
	topFlags EngineFlags
	topPlain bool
)

// rootCmd runs the live view when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ctop",
	Short: "Live CPU, memory and network view of a cluster",
	Long: `ctop polls every node of a fixed-size cluster over a remote shell and
shows CPU utilization, memory use and network throughput per node.

Each node is read by cat'ing /proc/stat, /proc/meminfo and /proc/net/dev.
Rates are computed from the difference between two consecutive polls, so
a node shows "waiting" until it has been read twice.

Examples:
  # Live dashboard using ./ctop.yaml or ~/.config/ctop/config.yaml
  ctop

  # 16 nodes named worker-001.., polled every 5s
  ctop --size 16 --template worker-%03d --interval 5s

  # One status line per tick, for logs and pipes
  ctop --plain

  # Also expose Prometheus metrics
  ctop --metrics-listen :9273`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTop(cmd, &topFlags, topPlain)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file (default ./ctop.yaml, then ~/.config/ctop/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	AddEngineFlags(rootCmd, &topFlags)
	rootCmd.Flags().BoolVar(&topPlain, "plain", false, "print one status line per tick instead of the dashboard")
}

// Execute runs the root command and exits non-zero on error. SIGINT and
// SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimRight(err.Error(), "\n"))
		os.Exit(1)
	}
}
