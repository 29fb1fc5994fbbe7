package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but ctop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade ctop, or lower 'version' if you wrote the file by hand.")
	}

	checks := []struct {
		section string
		fn      func(*Config) error
	}{
		{"fleet", validateFleet},
		{"polling", validatePolling},
		{"transport", validateTransport},
		{"display", validateDisplay},
		{"log", validateLog},
		{"metrics", validateMetrics},
	}
	for _, c := range checks {
		if err := c.fn(cfg); err != nil {
			if _, ok := err.(*errors.Error); ok {
				return err
			}
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				fmt.Sprintf("Check the '%s' settings in ctop.yaml.", c.section))
		}
	}
	return nil
}

func validateFleet(cfg *Config) error {
	if cfg.Fleet.Size < 1 {
		return fmt.Errorf("fleet.size must be at least 1, got %d", cfg.Fleet.Size)
	}
	if cfg.Fleet.FirstID < 0 {
		return fmt.Errorf("fleet.first_id can't be negative, got %d", cfg.Fleet.FirstID)
	}
	_, err := monitor.Hostname(cfg.Fleet.Template, cfg.Fleet.FirstID)
	return err
}

func validatePolling(cfg *Config) error {
	if strings.TrimSpace(cfg.Interface) == "" {
		return fmt.Errorf("interface can't be empty (try \"eth0\")")
	}
	if strings.ContainsAny(cfg.Interface, " \t:") {
		return fmt.Errorf("interface %q can't contain spaces or ':'", cfg.Interface)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	return nil
}

func validateTransport(cfg *Config) error {
	switch cfg.Transport.Kind {
	case TransportSSH:
		if cfg.Transport.DialTimeout < 0 {
			return fmt.Errorf("transport.dial_timeout can't be negative, got %s", cfg.Transport.DialTimeout)
		}
	case TransportExec:
		if len(cfg.Transport.Command) == 0 || strings.TrimSpace(cfg.Transport.Command[0]) == "" {
			return fmt.Errorf("transport.command needs a program for the exec transport (like [\"rsh\"])")
		}
	default:
		return fmt.Errorf("transport.kind %q isn't supported; use %q or %q",
			cfg.Transport.Kind, TransportSSH, TransportExec)
	}
	return nil
}

func validateDisplay(cfg *Config) error {
	if cfg.Display.NICFullScale <= 0 {
		return fmt.Errorf("display.nic_full_scale must be positive bytes/second, got %d", cfg.Display.NICFullScale)
	}
	if cfg.Display.Columns < 1 {
		return fmt.Errorf("display.columns must be at least 1, got %d", cfg.Display.Columns)
	}
	return nil
}

func validateLog(cfg *Config) error {
	if !logger.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q isn't one of debug, info, warn, error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", logger.FormatText, logger.FormatJSON:
		return nil
	}
	return fmt.Errorf("log.format %q isn't one of text, json", cfg.Log.Format)
}

func validateMetrics(cfg *Config) error {
	if cfg.Metrics.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
		return fmt.Errorf("metrics.listen %q isn't a host:port address: %w", cfg.Metrics.Listen, err)
	}
	return nil
}
