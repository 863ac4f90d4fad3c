// Package config loads settings for the tasks CLI.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "http://127.0.0.1:5000"
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"

	stateDirName = ".tasks"
	logFileName  = "tasks.log"
)

// Environment overrides.
const (
	EnvURL       = "TASKS_URL"
	EnvTheme     = "TASKS_THEME"
	EnvLogLevel  = "TASKS_LOG_LEVEL"
	EnvLogFormat = "TASKS_LOG_FORMAT"
	EnvLogFile   = "TASKS_LOG_FILE"
)

// Config holds everything the hosts need. File keys are shared by the
// TOML and YAML forms.
type Config struct {
	BaseURL    string `toml:"base_url" yaml:"base_url"`
	Theme      string `toml:"theme" yaml:"theme"`
	DeleteIcon string `toml:"delete_icon" yaml:"delete_icon"`
	LogLevel   string `toml:"log_level" yaml:"log_level"`
	LogFormat  string `toml:"log_format" yaml:"log_format"`
	LogFile    string `toml:"log_file" yaml:"log_file"`

	// Flag-only.
	ConfigFile string `toml:"-" yaml:"-"`
	Plain      bool   `toml:"-" yaml:"-"`
	ForceColor bool   `toml:"-" yaml:"-"`
	NoColor    bool   `toml:"-" yaml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = "text"
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. Config file (--config, else ~/.tasks/config.toml or config.yaml)
// 3. Environment variables
// 4. CLI flags
//
// It returns the arguments left after flag parsing.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	var fl Config
	fs.StringVar(&fl.ConfigFile, "config", "", "config file (.toml, .yaml or .yml)")
	fs.StringVar(&fl.BaseURL, "url", "", "task API base URL")
	fs.StringVar(&fl.Theme, "theme", "", "color theme: classic|neon|mono")
	fs.StringVar(&fl.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.StringVar(&fl.LogFile, "log-file", "", "append logs to this file")
	fs.BoolVar(&fl.Plain, "plain", false, "print the list instead of opening the TUI")
	fs.BoolVar(&fl.ForceColor, "color", false, "force colored output")
	fs.BoolVar(&fl.NoColor, "no-color", false, "disable colored output")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	path, explicit := fl.ConfigFile, fl.ConfigFile != ""
	if !explicit {
		path = findUserConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
		cfg.ConfigFile = path
	}

	loadFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.BaseURL = fl.BaseURL
		case "theme":
			cfg.Theme = fl.Theme
		case "log-level":
			cfg.LogLevel = fl.LogLevel
		case "log-file":
			cfg.LogFile = fl.LogFile
		}
	})
	cfg.Plain = fl.Plain
	cfg.ForceColor = fl.ForceColor
	cfg.NoColor = fl.NoColor

	if err := finalizeConfig(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// StateDir is ~/.tasks, shared with the credential store.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, stateDirName), nil
}

// DefaultLogFile is where the TUI logs when no log file is configured.
func DefaultLogFile() string {
	dir, err := StateDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, logFileName)
}

func findUserConfigFile() string {
	dir, err := StateDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
}

func finalizeConfig(cfg *Config) error {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if cfg.ForceColor && cfg.NoColor {
		return errors.New("--color and --no-color are mutually exclusive")
	}
	return nil
}
