package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Transport kinds.
const (
	TransportSSH  = "ssh"
	TransportExec = "exec"
)

// Config represents the complete ctop.yaml configuration file.
type Config struct {
	Version      int             `yaml:"version" mapstructure:"version"`
	Fleet        FleetConfig     `yaml:"fleet" mapstructure:"fleet"`
	Interface    string          `yaml:"interface" mapstructure:"interface"`
	Workers      int             `yaml:"workers" mapstructure:"workers"`
	FetchTimeout time.Duration   `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
	Interval     time.Duration   `yaml:"interval" mapstructure:"interval"`
	Transport    TransportConfig `yaml:"transport" mapstructure:"transport"`
	Display      DisplayConfig   `yaml:"display" mapstructure:"display"`
	Log          LogConfig       `yaml:"log" mapstructure:"log"`
	Metrics      MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
}

// FleetConfig describes the fixed set of nodes to poll.
type FleetConfig struct {
	// Size is the number of nodes.
	Size int `yaml:"size" mapstructure:"size"`

	// FirstID is the id of the first node; ids are consecutive.
	FirstID int `yaml:"first_id" mapstructure:"first_id"`

	// Template is a printf pattern with one integer verb, e.g. "node%02d".
	Template string `yaml:"template" mapstructure:"template"`
}

// TransportConfig selects how snapshots are fetched from nodes.
type TransportConfig struct {
	// Kind is "ssh" (built-in client) or "exec" (local remote-shell command).
	Kind string `yaml:"kind" mapstructure:"kind"`

	// Command is the exec argv prefix. The host and the snapshot command
	// are appended, e.g. ["rsh"] runs "rsh node01 cat ...".
	Command []string `yaml:"command" mapstructure:"command"`

	// User overrides the SSH login user.
	User string `yaml:"user,omitempty" mapstructure:"user"`

	// StrictHostKey rejects hosts missing from known_hosts.
	StrictHostKey bool `yaml:"strict_host_key" mapstructure:"strict_host_key"`

	// DialTimeout bounds SSH connection setup. Zero uses fetch_timeout.
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" mapstructure:"dial_timeout"`
}

// DisplayConfig controls the dashboard.
type DisplayConfig struct {
	// NICFullScale is the bytes/second drawn as a full RX/TX gauge.
	NICFullScale int64 `yaml:"nic_full_scale" mapstructure:"nic_full_scale"`

	// Columns is the number of node cells per row.
	Columns int `yaml:"columns" mapstructure:"columns"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level: "debug", "info", "warn" or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// Format: "text" or "json".
	Format string `yaml:"format" mapstructure:"format"`

	// File receives logs while the dashboard owns the terminal.
	// Empty discards them in dashboard mode.
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address to serve /metrics on. Empty disables it.
	Listen string `yaml:"listen,omitempty" mapstructure:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Fleet: FleetConfig{
			Size:     48,
			FirstID:  1,
			Template: "node%02d",
		},
		Interface:    "eth0",
		Workers:      8,
		FetchTimeout: 3 * time.Second,
		Interval:     3 * time.Second,
		Transport: TransportConfig{
			Kind:          TransportSSH,
			Command:       []string{"rsh"},
			StrictHostKey: true,
		},
		Display: DisplayConfig{
			NICFullScale: 128 << 20,
			Columns:      4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// EffectiveDialTimeout returns the SSH dial timeout, falling back to the
// fetch timeout when unset.
func (c *Config) EffectiveDialTimeout() time.Duration {
	if c.Transport.DialTimeout > 0 {
		return c.Transport.DialTimeout
	}
	return c.FetchTimeout
}
