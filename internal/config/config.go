package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"

	defaultAutosaveSeconds = 10
)

// Config holds user-tunable settings. Missing fields fall back to defaults.
type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	AutosaveSeconds int    `toml:"autosave_seconds"`
	DefaultView     string `toml:"default_view"` // "all" or "ungrouped"
}

// ResolveConfigPath returns the config file location under the XDG config
// directory, falling back to ~/.config.
func ResolveConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfigFileName
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskit", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if no file exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.AutosaveSeconds <= 0 {
		cfg.AutosaveSeconds = defaultAutosaveSeconds
	}
	if cfg.DefaultView != "ungrouped" {
		cfg.DefaultView = "all"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogPath()
	}
	return cfg, nil
}

// DefaultLogPath places the log next to the database under the XDG data
// directory, falling back to ~/.local/share.
func DefaultLogPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "taskit.log"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskit", "taskit.log")
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		LogPath:         DefaultLogPath(),
		AutosaveSeconds: defaultAutosaveSeconds,
		DefaultView:     "all",
	}
}
