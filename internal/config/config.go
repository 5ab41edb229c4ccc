// Package config handles application configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. RCTF_PROMPT.
const EnvPrefix = "RCTF"

// Config holds application configuration.
type Config struct {
	// DataDir is the directory for persistent data (history, logs, config)
	DataDir string `yaml:"-" ignored:"true"`

	// Prompt is shown by the top-level shell
	Prompt string `yaml:"prompt" split_words:"true"`

	// ControlPrompt is shown while a session is in control mode
	ControlPrompt string `yaml:"control_prompt" split_words:"true"`

	// ControlKey leaves passthrough for control mode
	ControlKey string `yaml:"control_key" split_words:"true"`

	// ResetDelay is how long ResetPrompt waits before discarding output
	ResetDelay time.Duration `yaml:"reset_delay" split_words:"true"`

	// HistoryLimit caps each line history
	HistoryLimit int `yaml:"history_limit" split_words:"true"`

	// DefaultPort is used by "ssh" when --port is omitted
	DefaultPort int `yaml:"default_port" split_words:"true"`

	// TermType is sent with every pty request
	TermType string `yaml:"term_type" split_words:"true"`

	// Shell is the program started by "local" when no shell is given
	Shell string `yaml:"shell" split_words:"true"`

	LogLevel string `yaml:"log_level" split_words:"true"`
	LogFile  string `yaml:"log_file" split_words:"true"`
}

// Default returns a Config with default values.
func Default() *Config {
	dataDir := defaultDataDir()
	return &Config{
		DataDir:       dataDir,
		Prompt:        "rctf",
		ControlPrompt: "termcraft",
		ControlKey:    "esc",
		ResetDelay:    time.Second,
		HistoryLimit:  100,
		DefaultPort:   22,
		TermType:      "xterm",
		Shell:         getDefaultShell(),
		LogLevel:      "info",
		LogFile:       filepath.Join(dataDir, "rctf.log"),
	}
}

// Load loads configuration from the default config file, falling back to
// defaults, then applies environment overrides.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path means
// <DataDir>/config.yaml. A missing default file is not an error; a missing
// explicit file is.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	configPath := path
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Parse YAML into a temporary struct to merge with defaults
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, errors.WrapPrefix(err, "parse "+configPath, 0)
		}
		mergeConfig(cfg, &fileCfg)
	case os.IsNotExist(err) && path == "":
	default:
		return nil, errors.Wrap(err, 0)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.WrapPrefix(err, "environment", 0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges file configuration into the default configuration.
// Only non-zero values from file are applied.
func mergeConfig(dst, src *Config) {
	if src.Prompt != "" {
		dst.Prompt = src.Prompt
	}
	if src.ControlPrompt != "" {
		dst.ControlPrompt = src.ControlPrompt
	}
	if src.ControlKey != "" {
		dst.ControlKey = src.ControlKey
	}
	if src.ResetDelay != 0 {
		dst.ResetDelay = src.ResetDelay
	}
	if src.HistoryLimit != 0 {
		dst.HistoryLimit = src.HistoryLimit
	}
	if src.DefaultPort != 0 {
		dst.DefaultPort = src.DefaultPort
	}
	if src.TermType != "" {
		dst.TermType = src.TermType
	}
	if src.Shell != "" {
		dst.Shell = src.Shell
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rctf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rctf"
	}
	return filepath.Join(home, ".config", "rctf")
}

// getDefaultShell returns the user's default shell.
func getDefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// HistoryDir returns the directory holding persisted line histories.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.DataDir, "history")
}

// ConfigFile returns the path to the config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}
