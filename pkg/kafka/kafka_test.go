package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeCommitter struct{ committed []kafka.Message }

func (c *fakeCommitter) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	c.committed = append(c.committed, msgs...)
	return nil
}

type flakyHandler struct {
	failures int
	calls    int
	traceIDs []string
}

func (h *flakyHandler) Topic() string { return "obs" }

func (h *flakyHandler) Handle(ctx context.Context, _ []byte) error {
	h.calls++
	h.traceIDs = append(h.traceIDs, TraceIDFrom(ctx))
	if h.calls <= h.failures {
		return errors.New("store unavailable")
	}
	return nil
}

func testConsumer(retryMax int, dlq messageWriter) *Consumer {
	c := newConsumer(&ConsumerConfig{
		RetryMax:   retryMax,
		BackoffMin: time.Millisecond,
		BackoffMax: time.Millisecond,
		DLQTopic:   "obs.dlq",
		BufferSize: 1,
	})
	c.dlq = dlq
	return c
}

func TestPublishBatchEncodesAndTags(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	err := p.PublishBatch(context.Background(), "obs", []Message{
		{Key: []byte("cnn"), Value: map[string]int{"score": 18}, Headers: map[string]string{"provider": "cnn"}},
		{Key: []byte("cnn"), Value: "raw"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(w.msgs))
	}
	var v map[string]int
	if err := json.Unmarshal(w.msgs[0].Value, &v); err != nil || v["score"] != 18 {
		t.Fatalf("unexpected value %s", w.msgs[0].Value)
	}
	if string(w.msgs[1].Value) != "raw" || w.msgs[0].Topic != "obs" {
		t.Fatalf("unexpected message %+v", w.msgs[1])
	}
	id0, id1 := ExtractTraceID(w.msgs[0]), ExtractTraceID(w.msgs[1])
	if id0 == "" || id0 != id1 {
		t.Fatalf("expected a shared trace id, got %q %q", id0, id1)
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker down")}, "gzip")
	if err := p.PublishMessage(context.Background(), "logs", []string{"x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProcessRetriesThenCommits(t *testing.T) {
	c := testConsumer(3, &fakeWriter{})
	c.WithConsumerHook(LoggingHook(c.log, 0))
	h := &flakyHandler{failures: 2}
	cm := &fakeCommitter{}
	km := kafka.Message{Headers: []kafka.Header{{Key: HeaderTraceID, Value: []byte("t-1")}}}

	c.process(h, cm, &message{topic: "obs", data: []byte(`{}`), km: km})

	if h.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", h.calls)
	}
	if h.traceIDs[2] != "t-1" {
		t.Fatalf("trace id not propagated: %v", h.traceIDs)
	}
	if len(cm.committed) != 1 {
		t.Fatalf("expected commit after success")
	}
}

func TestProcessExhaustedGoesToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	c := testConsumer(1, dlq)
	h := &flakyHandler{failures: 10}
	cm := &fakeCommitter{}

	c.process(h, cm, &message{topic: "obs", data: []byte(`bad`)})

	if h.calls != 2 {
		t.Fatalf("expected initial call plus one retry, got %d", h.calls)
	}
	if len(dlq.msgs) != 1 || dlq.msgs[0].Topic != "obs.dlq" || string(dlq.msgs[0].Value) != "bad" {
		t.Fatalf("unexpected dlq %+v", dlq.msgs)
	}
	if len(cm.committed) != 1 {
		t.Fatalf("expected commit after dlq")
	}
}

func TestProcessWithoutDLQLeavesOffset(t *testing.T) {
	c := testConsumer(0, nil)
	cm := &fakeCommitter{}
	c.process(&flakyHandler{failures: 1}, cm, &message{topic: "obs"})
	if len(cm.committed) != 0 {
		t.Fatalf("failed message must not be committed without a dlq")
	}
}

func TestHookChainRecoversPanics(t *testing.T) {
	var after []string
	chain := NewHookChain(
		HookFuncs{After: func(context.Context, string, kafka.Message, []byte, error) { after = append(after, "a") }},
		HookFuncs{
			Before: func(ctx context.Context, _ string, km kafka.Message, d []byte) (context.Context, kafka.Message, []byte, error) {
				panic("boom")
			},
			After: func(context.Context, string, kafka.Message, []byte, error) { after = append(after, "b") },
		},
	)
	_, _, _, err := chain.BeforeHandle(context.Background(), "obs", kafka.Message{}, nil)
	var he *HookError
	if !errors.As(err, &he) || he.Code != "ERR_PANIC" {
		t.Fatalf("expected panic hook error, got %v", err)
	}
	chain.AfterHandle(context.Background(), "obs", kafka.Message{}, nil, nil)
	if len(after) != 2 || after[0] != "b" || after[1] != "a" {
		t.Fatalf("after hooks must run in reverse, got %v", after)
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt < 70; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 200*time.Millisecond, attempt)
		if d <= 0 || d > 200*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v out of range", attempt, d)
		}
	}
}
