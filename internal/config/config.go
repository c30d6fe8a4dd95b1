package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jask/kanban/internal/attach"
	"github.com/jask/kanban/internal/board"
)

// Config holds application configuration.
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	UI      UIConfig      `mapstructure:"ui"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Attach  AttachConfig  `mapstructure:"attach"`
	Log     LogConfig     `mapstructure:"log"`
}

// SessionConfig holds values fixed for the lifetime of the program.
type SessionConfig struct {
	Reporter string `mapstructure:"reporter"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateTimeFormat string `mapstructure:"datetime_format"`
	Timezone       string `mapstructure:"timezone"`
	ColumnWidth    int    `mapstructure:"column_width"`
}

// EditorConfig controls how the issue modal submits.
type EditorConfig struct {
	UpdateInPlace bool `mapstructure:"update_in_place"`
}

// AttachConfig bounds attachment decoding.
type AttachConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LogConfig selects the log file and level.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Flags declares the command line overrides understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("kanban", pflag.ContinueOnError)
	fs.String("config", "", "path to config.toml")
	fs.String("reporter", "", "reporter name for this session")
	fs.Bool("update-in-place", false, "update the edited issue instead of creating a new one")
	fs.String("log-path", "", "log file path")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return fs
}

// Load reads configuration from file, env and flags. Env var overrides use
// prefix KANBAN_. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("session.reporter", board.DefaultReporter)
	v.SetDefault("ui.datetime_format", "2006-01-02 15:04")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.column_width", 28)
	v.SetDefault("editor.update_in_place", false)
	v.SetDefault("attach.max_bytes", attach.DefaultMaxBytes)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "kanban", "kanban.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("KANBAN_CONFIG")
	if fs != nil {
		if p, err := fs.GetString("config"); err == nil && p != "" {
			cfgPath = p
		}
		bindFlag(v, fs, "session.reporter", "reporter")
		bindFlag(v, fs, "editor.update_in_place", "update-in-place")
		bindFlag(v, fs, "log.path", "log-path")
		bindFlag(v, fs, "log.level", "log-level")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "kanban"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("KANBAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Session.Reporter = strings.TrimSpace(c.Session.Reporter)
	if c.Session.Reporter == "" {
		c.Session.Reporter = board.DefaultReporter
	}
	if c.UI.ColumnWidth < 12 {
		c.UI.ColumnWidth = 12
	}
	return c, nil
}

// bindFlag binds only flags the user actually set, so an unset flag never
// shadows a file or env value.
func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, name string) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	_ = v.BindPFlag(key, f)
}

// Location resolves the configured timezone, falling back to time.Local.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.UI.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
