package cli

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/rileyhilliard/ctop/internal/monitor"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; empty means ./ctop.yaml
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults plus flags
}

var (
	initFlags          EngineFlags
	initForce          bool
	initGlobal         bool
	initNonInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a ctop config file",
	Long: `Create ctop.yaml in the current directory (or the global config with
--global) by answering a few questions about the fleet.

Examples:
  ctop init
  ctop init --global
  ctop init --non-interactive --size 16 --transport exec`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := InitOptions{
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
		}
		if initGlobal {
			opts.Path = config.GlobalConfigPath()
		}
		return Init(cmd, opts)
	},
}

func init() {
	AddEngineFlags(initCmd, &initFlags)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write ~/.config/ctop/config.yaml instead of ./ctop.yaml")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and use defaults plus flags")

	rootCmd.AddCommand(initCmd)
}

// Init writes a new config file built from defaults, flags and, unless
// NonInteractive is set, answers to a huh form.
func Init(cmd *cobra.Command, opts InitOptions) error {
	out := cmd.OutOrStdout()
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	applyEngineFlags(cmd, &initFlags, cfg)

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  ctop snapshot  - Poll the fleet once and print a table")
	fmt.Fprintln(out, "  ctop           - Open the live dashboard")
	return nil
}

// promptConfig asks for the fleet and transport settings, prefilled with
// the current values of cfg.
func promptConfig(cfg *config.Config) error {
	size := strconv.Itoa(cfg.Fleet.Size)
	command := strings.Join(cfg.Transport.Command, " ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Number of nodes").
				Value(&size).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive whole number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Hostname template").
				Description("One integer verb, replaced by the node number").
				Placeholder(monitor.DefaultHostTemplate).
				Value(&cfg.Fleet.Template).
				Validate(func(s string) error {
					_, err := monitor.Hostname(s, cfg.Fleet.FirstID)
					return err
				}),
			huh.NewInput().
				Title("Network interface").
				Placeholder(monitor.DefaultInterface).
				Value(&cfg.Interface).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t:") {
						return fmt.Errorf("enter an interface name like eth0")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transport").
				Options(
					huh.NewOption("ssh (built-in client, pooled connections)", config.TransportSSH),
					huh.NewOption("exec (run rsh or ssh per poll)", config.TransportExec),
				).
				Value(&cfg.Transport.Kind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Remote shell command").
				Description("Run as: <command> <host> cat /proc/...").
				Placeholder("rsh").
				Value(&command).
				Validate(func(s string) error {
					if len(strings.Fields(s)) == 0 {
						return fmt.Errorf("command is required for the exec transport")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return cfg.Transport.Kind != config.TransportExec
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Prometheus metrics address (optional)").
				Placeholder(":9273 (leave empty to skip)").
				Value(&cfg.Metrics.Listen).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, _, err := net.SplitHostPort(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Fleet.Size, _ = strconv.Atoi(strings.TrimSpace(size))
	if cfg.Transport.Kind == config.TransportExec {
		cfg.Transport.Command = strings.Fields(command)
	}
	return nil
}
