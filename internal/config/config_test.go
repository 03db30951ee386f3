package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "127.0.0.1" || cfg.Database.Port != 3306 {
		t.Errorf("Database = %s:%d, want 127.0.0.1:3306", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Agent.ContextWindow != 10 {
		t.Errorf("Agent.ContextWindow = %d, want 10", cfg.Agent.ContextWindow)
	}
	if cfg.Agent.CondenseThreshold != 10 || cfg.Agent.CondenseKeepRecent != 8 {
		t.Errorf("condense = %d/%d, want 10/8", cfg.Agent.CondenseThreshold, cfg.Agent.CondenseKeepRecent)
	}
	if cfg.Agent.SummaryModel != "gpt-4o-mini" {
		t.Errorf("Agent.SummaryModel = %q", cfg.Agent.SummaryModel)
	}
	if cfg.Retention.Schedule != "0 3 * * *" || cfg.Retention.Days != 30 {
		t.Errorf("Retention = %q/%d", cfg.Retention.Schedule, cfg.Retention.Days)
	}
}

func TestParse_Overrides(t *testing.T) {
	yaml := `
server:
  port: 9090
database:
  host: db.internal
  port: 3307
  user: parley
  database: parley_prod
agent:
  request_timeout_sec: 30
  cache_size: 8
trigger:
  keywords: [helper]
  patterns: ["please respond"]
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.User != "parley" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if got := cfg.Agent.RequestTimeout(); got != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", got)
	}
	if cfg.Agent.CacheSize != 8 {
		t.Errorf("Agent.CacheSize = %d", cfg.Agent.CacheSize)
	}
	if len(cfg.Trigger.Keywords) != 1 || cfg.Trigger.Keywords[0] != "helper" {
		t.Errorf("Trigger.Keywords = %v", cfg.Trigger.Keywords)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [not a map"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_CondenseBounds(t *testing.T) {
	yaml := `
agent:
  condense_threshold: 5
  condense_keep_recent: 8
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "condense_keep_recent") {
		t.Errorf("error = %v", err)
	}
}

func TestValidate_RetentionDays(t *testing.T) {
	_, err := Parse([]byte("retention:\n  days: -2\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "retention.days") {
		t.Errorf("error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Agent.CacheSize != 32 {
		t.Errorf("Agent.CacheSize = %d", cfg.Agent.CacheSize)
	}
}
