// Package config loads tmux-persist configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TMUX_PERSIST_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .tmux-persist.yaml in current directory
//  2. ~/.config/tmux-persist/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tmux-persist configuration.
type Config struct {
	// Output
	OutputDir string `yaml:"output_dir"`
	Extension string `yaml:"extension"` // restore script extension, without the dot

	// External commands
	CommandTimeout string `yaml:"command_timeout"` // Go duration string, e.g. "5s"; "0" disables

	// Sessions matching any of these patterns are not captured.
	// A trailing "*" matches by prefix.
	ExcludeSessions []string `yaml:"exclude_sessions"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	LogFile   string `yaml:"log_file"`   // empty logs to stderr

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// TUI
	Theme string `yaml:"theme"` // dark, light

	// Parsed values (not from YAML, set after loading)
	CommandTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

var extensionPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir(),
		Extension:      "sh",
		CommandTimeout: "5s",
		LogLevel:       "info",
		LogFormat:      "text",
		Theme:          "dark",
	}
}

// DefaultOutputDir returns $XDG_DATA_HOME/tmux-persist, falling back to
// ~/.local/share/tmux-persist.
func DefaultOutputDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "tmux-persist")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tmux-persist")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("tmux-persist-%d", os.Getuid()))
}

// Load reads configuration from the first config file found and the
// environment. Environment variables always override file values.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is like Load but reads the given config file instead of
// searching for one. An explicit path that cannot be read is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		path, data, err = findConfigFile()
		if err != nil {
			path, data = "", nil
		}
	}

	if path != "" {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	// Environment variables override everything
	mergeEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize expands paths, parses durations and validates values.
func (c *Config) finalize() error {
	var err error
	c.OutputDir, err = expandHome(c.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output_dir %q: %w", c.OutputDir, err)
	}
	if c.LogFile != "" {
		c.LogFile, err = expandHome(c.LogFile)
		if err != nil {
			return fmt.Errorf("invalid log_file %q: %w", c.LogFile, err)
		}
	}

	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if !extensionPattern.MatchString(c.Extension) {
		return fmt.Errorf("invalid extension %q: must be letters and digits only", c.Extension)
	}

	c.CommandTimeoutDuration, err = parseDurationOrDisable(c.CommandTimeout, 5*time.Second)
	if err != nil {
		return fmt.Errorf("invalid command timeout %q: %w", c.CommandTimeout, err)
	}
	return nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".tmux-persist.yaml"); err == nil {
		return ".tmux-persist.yaml", data, nil
	}

	// 2. ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "tmux-persist", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.OutputDir != "" {
		cfg.OutputDir = file.OutputDir
	}
	if file.Extension != "" {
		cfg.Extension = file.Extension
	}
	if file.CommandTimeout != "" {
		cfg.CommandTimeout = file.CommandTimeout
	}
	if len(file.ExcludeSessions) > 0 {
		cfg.ExcludeSessions = file.ExcludeSessions
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TMUX_PERSIST_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("TMUX_PERSIST_EXTENSION"); v != "" {
		cfg.Extension = v
	}
	if v := os.Getenv("TMUX_PERSIST_COMMAND_TIMEOUT"); v != "" {
		cfg.CommandTimeout = v
	}
	if v := os.Getenv("TMUX_PERSIST_EXCLUDE_SESSIONS"); v != "" {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.ExcludeSessions = patterns
	}
	if v := os.Getenv("TMUX_PERSIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TMUX_PERSIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TMUX_PERSIST_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TMUX_PERSIST_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// MatchesExcludeList reports whether name matches any pattern. A pattern
// ending in "*" matches by prefix; anything else must match exactly.
func MatchesExcludeList(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(name, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if name == p {
			return true
		}
	}
	return false
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
