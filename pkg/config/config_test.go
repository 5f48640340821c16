package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Source.Provider != "cnn" || c.Source.DefaultLimit != 30 || c.Source.Timeout != 10*time.Second {
		t.Fatalf("unexpected source defaults %+v", c.Source)
	}
	if c.Kafka.RequiredAcks != -1 || c.Backend.Type != "none" {
		t.Fatalf("unexpected defaults kafka=%d backend=%s", c.Kafka.RequiredAcks, c.Backend.Type)
	}
	if c.Collector.Schedule != "@every 15m" {
		t.Fatalf("unexpected schedule %q", c.Collector.Schedule)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
source:
  provider: alternative
  timeout: 3s
metrics:
  enabled: false
`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Source.Provider != "alternative" || c.Source.Timeout != 3*time.Second {
		t.Fatalf("unexpected source %+v", c.Source)
	}
	if c.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
	if c.Server.Port != 8080 {
		t.Fatalf("expected default port, got %d", c.Server.Port)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []string{
		"source:\n  provider: bloomberg\n",
		"backend:\n  type: kafka\n",
		"backend:\n  type: clickhouse\n",
		"source:\n  provider: archive\n",
		"log:\n  level: loud\n",
		"collector:\n  schedule: \"every now and then\"\n",
	}
	for _, in := range cases {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("expected validation error for %q", in)
		}
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("FNG_PROVIDER", "alternative")
	t.Setenv("REDIS_ADDR", "cache.local:6380")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Source.Provider != "alternative" || c.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v %+v", c.Source, c.Log)
	}
	if c.Cache.Redis.Host != "cache.local" || c.Cache.Redis.Port != 6380 {
		t.Fatalf("unexpected redis %+v", c.Cache.Redis)
	}
}
