package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig controls where the task database lives.
type StorageConfig struct {
	// Dir is the directory holding the TasksDB file.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Timeout bounds each store call made by the terminal UI.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DefaultsConfig holds the colours pre-filled for a new task.
type DefaultsConfig struct {
	TextColour string `mapstructure:"text_colour" yaml:"text_colour"`
	BackColour string `mapstructure:"back_colour" yaml:"back_colour"`
}

// LogConfig controls the log file. The terminal belongs to the UI, so logs
// never go to stderr.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

const defaultTimeout = 5 * time.Second

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskmaker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskmaker", "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/taskmaker, falling back to
// ~/.local/share/taskmaker.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskmaker")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "taskmaker")
	}
	return filepath.Join(home, ".local", "share", "taskmaker")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Dir:     DefaultDataDir(),
			Timeout: defaultTimeout,
		},
		Defaults: DefaultsConfig{
			TextColour: DefaultTextColour,
			BackColour: DefaultBackColour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// TASKMAKER_* environment variables override file values, e.g.
// TASKMAKER_STORAGE_DIR. If the file does not exist, defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TASKMAKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so
	// AutomaticEnv knows which keys exist.
	v.SetDefault("storage.dir", def.Storage.Dir)
	v.SetDefault("storage.timeout", def.Storage.Timeout)
	v.SetDefault("defaults.text_colour", def.Defaults.TextColour)
	v.SetDefault("defaults.back_colour", def.Defaults.BackColour)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		// A missing file still goes through Unmarshal so env overrides apply.
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := def
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Storage.Timeout <= 0 {
		cfg.Storage.Timeout = defaultTimeout
	}
	if cfg.Defaults.TextColour == "" {
		cfg.Defaults.TextColour = DefaultTextColour
	}
	if cfg.Defaults.BackColour == "" {
		cfg.Defaults.BackColour = DefaultBackColour
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("storage.timeout", cfg.Storage.Timeout.String())
	v.Set("defaults.text_colour", cfg.Defaults.TextColour)
	v.Set("defaults.back_colour", cfg.Defaults.BackColour)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// LogPath returns the configured log file, defaulting to taskmaker.log in
// the storage directory.
func (c *AppConfig) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.Dir, "taskmaker.log")
}
