// Package config provides YAML-based configuration loading for Parley.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Parley configuration, loaded from parley.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Agent     AgentConfig     `yaml:"agent"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Retention RetentionConfig `yaml:"retention"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// AgentConfig tunes language-model invocation.
type AgentConfig struct {
	RequestTimeoutSec  int    `yaml:"request_timeout_sec"`
	CacheSize          int    `yaml:"cache_size"`
	SummaryModel       string `yaml:"summary_model"`
	ContextWindow      int    `yaml:"context_window"`
	CondenseThreshold  int    `yaml:"condense_threshold"`
	CondenseKeepRecent int    `yaml:"condense_keep_recent"`
}

// TriggerConfig holds extra activation keywords and patterns layered on top
// of the built-in set.
type TriggerConfig struct {
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
}

// RetentionConfig controls the sweeper that purges soft-deleted rows.
type RetentionConfig struct {
	Schedule string `yaml:"schedule"` // 5-field cron expression
	Days     int    `yaml:"days"`
}

// RequestTimeout returns the agent request timeout as a duration.
func (a AgentConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSec) * time.Second
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied and no database
// configured, suitable for tests and local sqlite mode.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" {
		c.Database.Database = "parley"
	}
	if c.Agent.RequestTimeoutSec == 0 {
		c.Agent.RequestTimeoutSec = 60
	}
	if c.Agent.CacheSize == 0 {
		c.Agent.CacheSize = 32
	}
	if c.Agent.SummaryModel == "" {
		c.Agent.SummaryModel = "gpt-4o-mini"
	}
	if c.Agent.ContextWindow == 0 {
		c.Agent.ContextWindow = 10
	}
	if c.Agent.CondenseThreshold == 0 {
		c.Agent.CondenseThreshold = 10
	}
	if c.Agent.CondenseKeepRecent == 0 {
		c.Agent.CondenseKeepRecent = 8
	}
	if c.Retention.Schedule == "" {
		c.Retention.Schedule = "0 3 * * *"
	}
	if c.Retention.Days == 0 {
		c.Retention.Days = 30
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Agent.CondenseKeepRecent >= c.Agent.CondenseThreshold {
		errs = append(errs, "agent.condense_keep_recent must be below agent.condense_threshold")
	}
	if c.Agent.CacheSize < 0 {
		errs = append(errs, "agent.cache_size must not be negative")
	}
	if c.Retention.Days < 1 {
		errs = append(errs, "retention.days must be at least 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
