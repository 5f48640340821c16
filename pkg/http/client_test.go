package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONRetriesTemporaryStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "probe/1.0" {
			t.Errorf("missing user agent, got %q", r.Header.Get("User-Agent"))
		}
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewClient(WithRetry(3, time.Millisecond), WithUserAgent("probe/1.0"))
	var out struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Value != 42 || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("unexpected value=%d calls=%d", out.Value, calls)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithRetry(5, time.Millisecond))
	err := c.GetJSON(context.Background(), srv.URL, map[string][]string{"limit": {"3"}}, &struct{}{})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGetJSONDecodeErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewClient(WithRetry(3, time.Millisecond))
	if err := c.GetJSON(context.Background(), srv.URL, nil, &struct{}{}); err == nil {
		t.Fatalf("expected decode error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestSendAndParseHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := NewClient(WithRetry(10, time.Second))
	err := c.GetJSON(ctx, srv.URL, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
