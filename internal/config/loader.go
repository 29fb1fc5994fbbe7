package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file looked up in the current directory.
	ConfigFileName = "ctop.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/ctop"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CTOP_WORKERS=16.
	EnvPrefix = "CTOP"
)

// Load reads config from the specified path, applying defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'ctop init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. ctop.yaml in current directory
// 3. ~/.config/ctop/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if _, err := os.Stat(ConfigFileName); err == nil {
		abs, absErr := filepath.Abs(ConfigFileName)
		if absErr != nil {
			return ConfigFileName, nil
		}
		return abs, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/ctop/config.yaml, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads the config found by Find(explicit). With no config
// file it returns defaults plus environment overrides. The returned path is
// empty when no file was read.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with every key defaulted and
// CTOP_-prefixed environment overrides enabled.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key with viper. AutomaticEnv only applies to
// keys viper already knows about.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("fleet.size", d.Fleet.Size)
	v.SetDefault("fleet.first_id", d.Fleet.FirstID)
	v.SetDefault("fleet.template", d.Fleet.Template)
	v.SetDefault("interface", d.Interface)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("fetch_timeout", d.FetchTimeout)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("transport.kind", d.Transport.Kind)
	v.SetDefault("transport.command", d.Transport.Command)
	v.SetDefault("transport.user", d.Transport.User)
	v.SetDefault("transport.strict_host_key", d.Transport.StrictHostKey)
	v.SetDefault("transport.dial_timeout", d.Transport.DialTimeout)
	v.SetDefault("display.nic_full_scale", d.Display.NICFullScale)
	v.SetDefault("display.columns", d.Display.Columns)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		where := "your environment overrides"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg.Log.File = ExpandTilde(Expand(cfg.Log.File))
	return cfg, nil
}
