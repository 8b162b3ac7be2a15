// Package config loads the project configuration from .styco/config.yaml
// or .styco/config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/styco/pkg/styco"
	"github.com/gnana997/styco/pkg/util"
)

// Dir is the project configuration directory.
const Dir = ".styco"

// DefaultFiles are tried in order when no explicit path is given.
var DefaultFiles = []string{
	filepath.Join(Dir, "config.yaml"),
	filepath.Join(Dir, "config.yml"),
	filepath.Join(Dir, "config.toml"),
}

// Config is the whole project configuration.
type Config struct {
	Refactor styco.Config `yaml:"refactor" toml:"refactor"`
	Log      LogConfig    `yaml:"log" toml:"log"`
	Scan     ScanConfig   `yaml:"scan" toml:"scan"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// LogConfig configures the process logger and the MCP call log.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// CallLog is the JSONL file for MCP tool calls; empty disables it.
	CallLog string `yaml:"call_log" toml:"call_log"`
}

// ScanConfig configures workspace discovery for scan and watch.
type ScanConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
	Workers int      `yaml:"workers" toml:"workers"`
	// DebounceMillis delays rescans after file changes in watch mode.
	DebounceMillis int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Refactor: styco.DefaultConfig(),
		Log: LogConfig{
			Level:  string(util.LevelInfo),
			Format: string(util.FormatText),
		},
		Scan: ScanConfig{
			Include:        []string{"**/*.{jsx,tsx,js}"},
			Exclude:        []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/.next/**", "**/coverage/**"},
			DebounceMillis: 200,
		},
	}
}

// Load reads the configuration. An explicit path must exist; otherwise the
// default files are tried relative to dir and a missing file yields the
// defaults. Values absent from the file keep their defaults.
func Load(path, dir string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != "" {
		cfg, err := loadFile(path, logger)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		cfg, err := loadFile(candidate, logger)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	logger.Debug("no configuration file found, using defaults", "dir", dir)
	return Default(), nil
}

func loadFile(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logger.Warn("unrecognized config keys", "file", path, "keys", fmt.Sprint(undecoded))
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.Source = path
	cfg.validate(logger)
	logger.Debug("configuration loaded", "file", path)
	return cfg, nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate(logger *slog.Logger) {
	defaults := Default()

	switch util.LogLevel(strings.ToLower(c.Log.Level)) {
	case util.LevelDebug, util.LevelInfo, util.LevelWarn, util.LevelError:
	default:
		logger.Warn("invalid log level, using default", "level", c.Log.Level)
		c.Log.Level = defaults.Log.Level
	}

	switch util.LogFormat(strings.ToLower(c.Log.Format)) {
	case util.FormatJSON, util.FormatText:
	default:
		logger.Warn("invalid log format, using default", "format", c.Log.Format)
		c.Log.Format = defaults.Log.Format
	}

	if len(c.Scan.Include) == 0 {
		c.Scan.Include = defaults.Scan.Include
	}
	if c.Scan.Workers < 0 {
		c.Scan.Workers = 0
	}
	if c.Scan.DebounceMillis <= 0 {
		c.Scan.DebounceMillis = defaults.Scan.DebounceMillis
	}
}

// LoggerConfig returns the logger settings for util.NewLogger.
func (c *Config) LoggerConfig() util.LoggerConfig {
	lc := util.DefaultLoggerConfig()
	lc.Level = util.LogLevel(strings.ToLower(c.Log.Level))
	lc.Format = util.LogFormat(strings.ToLower(c.Log.Format))
	return lc
}
