package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the leadscout configuration
type Config struct {
	Matching MatchingConfig           `yaml:"matching"`
	Scoring  ScoringConfig            `yaml:"scoring"`
	Watch    WatchConfig              `yaml:"watch"`
	Channels map[string]ChannelConfig `yaml:"channels"`
}

// MatchingConfig tunes the identity matcher and duplicate grouper.
type MatchingConfig struct {
	// Minimum pairwise score for two records to land in the same cluster.
	GroupThreshold float64 `yaml:"group_threshold"`
	// Extra generational/honorific suffixes stripped before name comparison,
	// on top of the built-in set (jr, sr, ii, iii, iv).
	ExtraSuffixes []string `yaml:"extra_suffixes,omitempty"`
}

// ScoringConfig allows extending the built-in scoring lexicons.
type ScoringConfig struct {
	ExtraIntent     map[string]int `yaml:"extra_intent,omitempty"`
	ExtraPain       map[string]int `yaml:"extra_pain,omitempty"`
	ExtraLifeEvents map[string]int `yaml:"extra_life_events,omitempty"`
}

// WatchConfig controls the drop-directory watcher.
type WatchConfig struct {
	// Directory scanned for new channel dump files. Empty disables watch mode.
	DropDir string `yaml:"drop_dir,omitempty"`
	// Seconds to wait after the last file event before importing.
	DebounceSeconds int `yaml:"debounce_seconds,omitempty"`
}

// ChannelConfig represents per-channel import configuration
type ChannelConfig struct {
	Enabled bool           `yaml:"enabled"`
	Format  string         `yaml:"format,omitempty"` // "json" or "csv"
	Options map[string]any `yaml:"options,omitempty"`
}

// Defaults used when no config file exists.
const (
	DefaultGroupThreshold  = 0.75
	DefaultDebounceSeconds = 2
)

// GetConfigDir returns the XDG-compliant config directory
func GetConfigDir() (string, error) {
	// Explicit override (useful for tests and portable installs)
	if override := os.Getenv("LEADSCOUT_CONFIG_DIR"); override != "" {
		return override, nil
	}

	var base string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "leadscout"), nil
}

// GetDataDir returns the platform-specific data directory
func GetDataDir() (string, error) {
	// Explicit override (useful for tests and portable installs)
	if override := os.Getenv("LEADSCOUT_DATA_DIR"); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "LeadScout"), nil
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "leadscout"), nil
	}

	return filepath.Join(home, ".local", "share", "leadscout"), nil
}

// Load loads config from the config file
func Load() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Channels == nil {
		cfg.Channels = make(map[string]ChannelConfig)
	}
	if cfg.Matching.GroupThreshold <= 0 {
		cfg.Matching.GroupThreshold = DefaultGroupThreshold
	}
	if cfg.Watch.DebounceSeconds <= 0 {
		cfg.Watch.DebounceSeconds = DefaultDebounceSeconds
	}

	return &cfg, nil
}

// Save saves the config to the config file
func (c *Config) Save() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func defaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{GroupThreshold: DefaultGroupThreshold},
		Watch:    WatchConfig{DebounceSeconds: DefaultDebounceSeconds},
		Channels: make(map[string]ChannelConfig),
	}
}
