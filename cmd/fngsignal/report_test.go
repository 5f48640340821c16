package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/services/sentiment"
)

func TestReportSingleObservation(t *testing.T) {
	a, err := sentiment.Analyze([]models.Observation{
		{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Score: 18.0, Rating: "extreme fear"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var buf bytes.Buffer
	writeReport(&buf, "cnn", a)
	out := buf.String()

	if !strings.Contains(out, "2024-05-03") || !strings.Contains(out, "STRONG_BUY") {
		t.Fatalf("missing signal line:\n%s", out)
	}
	if !strings.Contains(out, "Daily:   insufficient data") || !strings.Contains(out, "Trend:   insufficient data") {
		t.Fatalf("expected insufficient data placeholders:\n%s", out)
	}
	if strings.Contains(out, "+0.00") {
		t.Fatalf("absent change rendered as zero:\n%s", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"classify", "80"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "STRONG_SELL") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestClassifyCommandRejectsText(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"classify", "greedy"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for non-numeric score")
	}
}
