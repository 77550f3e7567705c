package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mj1618/nirctl/internal/logger"
	"github.com/mj1618/nirctl/internal/state"
)

// AppName names the per-user config and data directories.
const AppName = "nirctl"

// EnvPrefix is prepended to environment overrides, e.g. NIRCTL_NIRCMD_PATH.
const EnvPrefix = "NIRCTL"

// Config is the resolved runtime configuration.
type Config struct {
	DataDir    string        `mapstructure:"data_dir"`
	NircmdPath string        `mapstructure:"nircmd_path"`
	GroupsFile string        `mapstructure:"groups_file"`
	State      StateConfig   `mapstructure:"state"`
	History    HistoryConfig `mapstructure:"history"`
	Log        LogConfig     `mapstructure:"log"`
	Notify     NotifyConfig  `mapstructure:"notify"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

type StateConfig struct {
	// DB is the SQLite file holding frozen records and history.
	// "none" disables durable state.
	DB string `mapstructure:"db"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	NoColor    bool   `mapstructure:"no_color"`
}

type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// DefaultDir returns <user config dir>/nirctl.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the config file location used when --config is empty.
func DefaultPath() string {
	dir, err := DefaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the YAML config at path. An empty path means DefaultPath.
// A missing file is not an error; environment variables with the NIRCTL_
// prefix still apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"data_dir", "nircmd_path", "groups_file", "state.db", "history.limit",
		"log.file", "log.level", "log.max_size_mb", "log.max_backups",
		"log.max_age_days", "log.compress", "log.no_color", "notify.desktop", "metrics.listen",
	} {
		// AutomaticEnv only resolves keys viper already knows about.
		_ = v.BindEnv(key)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			switch {
			case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
				if explicit {
					return Config{}, fmt.Errorf("config file %s: %w", path, err)
				}
			default:
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.applyDefaults(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if c.DataDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.GroupsFile == "" {
		c.GroupsFile = filepath.Join(c.DataDir, "app_groups.txt")
	}
	switch strings.ToLower(strings.TrimSpace(c.State.DB)) {
	case "":
		c.State.DB = filepath.Join(c.DataDir, "state.db")
	case "none", "off":
		c.State.DB = ""
	}
	if c.History.Limit <= 0 {
		c.History.Limit = state.DefaultHistoryLimit
	}
	return nil
}

// LoggerConfig converts the log section for logger.New.
func (c Config) LoggerConfig(verbose bool) logger.Config {
	lc := logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		NoColor:    c.Log.NoColor,
	}
	if verbose {
		lc.Level = "debug"
	}
	return lc
}
