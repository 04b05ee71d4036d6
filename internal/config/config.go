// Package config loads the teamsheet configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDir is the directory under the user's home holding config and database.
	DefaultDir = ".teamsheet"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDBFile is the default database file name.
	DefaultDBFile = "teamsheet.db"

	envDB       = "TEAMSHEET_DB"
	envLogLevel = "TEAMSHEET_LOG_LEVEL"
)

// Config holds everything the CLI can be told without flags.
type Config struct {
	DBPath   string `yaml:"db_path,omitempty"`
	Club     string `yaml:"club,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	LogJSON  bool   `yaml:"log_json,omitempty"`

	// SuggestThreshold is the WRatio at which a new name is flagged as a likely typo.
	SuggestThreshold int `yaml:"suggest_threshold,omitempty"`
	// GroupThreshold is the TokenSortRatio used by duplicate grouping.
	GroupThreshold   int `yaml:"group_threshold,omitempty"`
	MilestoneEvery   int `yaml:"milestone_every,omitempty"`
	LeaderboardLimit int `yaml:"leaderboard_limit,omitempty"`
}

// Default returns a Config with default values rooted at home.
func Default(home string) *Config {
	return &Config{
		DBPath:           filepath.Join(home, DefaultDir, DefaultDBFile),
		Club:             "Guildford",
		LogLevel:         "warn",
		SuggestThreshold: 90,
		GroupThreshold:   80,
		MilestoneEvery:   50,
		LeaderboardLimit: 100,
	}
}

// FilePath returns the default config file location under home.
func FilePath(home string) string {
	return filepath.Join(home, DefaultDir, DefaultConfigFile)
}

// Load reads the YAML file at path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path, home string) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects thresholds outside 0..100 and unknown log levels.
func (c *Config) Validate() error {
	for name, v := range map[string]int{
		"suggest_threshold": c.SuggestThreshold,
		"group_threshold":   c.GroupThreshold,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("config: %s must be between 0 and 100, got %d", name, v)
		}
	}
	if c.MilestoneEvery < 0 {
		return fmt.Errorf("config: milestone_every must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
