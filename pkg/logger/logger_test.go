package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu    sync.Mutex
	topic string
	got   []AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.got = append(p.got, payload.([]AggregatedLogEntry)...)
	return nil
}

func TestWriterLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "test"))
	l.Info("hello", Int("n", 3), Float64("score", 18.5), Error(errors.New("boom")))

	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("unexpected err: %v (%s)", err, buf.String())
	}
	if m["message"] != "hello" || m["component"] != "test" || m["n"].(float64) != 3 || m["score"].(float64) != 18.5 {
		t.Fatalf("unexpected log line %v", m)
	}
	if m["error"] != "boom" {
		t.Fatalf("expected error field, got %v", m["error"])
	}
}

func TestCollectorFoldsDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Topic: "logs", Publisher: pub})
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.AddLog("error", "upstream failed", map[string]interface{}{"provider": "cnn"}, "x.go:1")
	}
	c.AddLog("error", "store failed", nil, "y.go:2")

	pending := c.Pending()
	if len(pending) != 2 || pending[0].Count != 3 || pending[1].Count != 1 {
		t.Fatalf("unexpected pending %+v", pending)
	}

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pub.topic != "logs" || len(pub.got) != 2 {
		t.Fatalf("unexpected publish topic=%s n=%d", pub.topic, len(pub.got))
	}
	if len(c.Pending()) != 0 {
		t.Fatalf("expected empty collector after flush")
	}
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	pub := &capturePublisher{}
	l := NewWriter(&bytes.Buffer{})
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Publisher: pub})
	defer l.RemoveCollector()

	l.Error("fetch failed", String("provider", "cnn"))
	l.Error("fetch failed", String("provider", "cnn"))
	l.Warn("ignored by collector")

	pending := l.collector.Pending()
	if len(pending) != 1 || pending[0].Count != 2 || pending[0].Fields["provider"] != "cnn" {
		t.Fatalf("unexpected pending %+v", pending)
	}
}
