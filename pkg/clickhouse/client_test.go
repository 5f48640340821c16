package clickhouse

import (
	"net/url"
	"testing"
	"time"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host:         "ch.local",
		Port:         9000,
		Database:     "sentipull",
		User:         "default",
		Password:     "p@ss",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		QueryTimeout: 30 * time.Second,
		AsyncInsert:  true,
		WaitForAsync: true,
	})
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("unparseable dsn %q: %v", dsn, err)
	}
	if u.Scheme != "clickhouse" || u.Host != "ch.local:9000" || u.Path != "/sentipull" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if pw, _ := u.User.Password(); pw != "p@ss" {
		t.Fatalf("password not preserved: %q", dsn)
	}
	q := u.Query()
	if q.Get("dial_timeout") != "5s" || q.Get("max_execution_time") != "30" || q.Get("wait_for_async_insert") != "1" {
		t.Fatalf("unexpected settings %v", q)
	}
	if q.Get("read_timeout") != "10s" || q.Get("async_insert") != "1" {
		t.Fatalf("unexpected settings %v", q)
	}
}

func TestBuildDSNHTTP(t *testing.T) {
	dsn := buildDSN(ClientConfig{Host: "h", Port: 8123, Database: "d", User: "u", UseHTTP: true})
	u, _ := url.Parse(dsn)
	if u.Scheme != "http" || u.Query().Has("async_insert") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}

func TestWithTimeoutsKeepsDefaultsForZero(t *testing.T) {
	cfg := ClientConfig{DialTimeout: 5 * time.Second, ReadTimeout: 10 * time.Second}
	WithTimeouts(0, 3*time.Second)(&cfg)
	if cfg.DialTimeout != 5*time.Second || cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg)
	}
}

func TestNewClientRequiresHost(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Fatalf("expected error without host")
	}
}
