package sentiment

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func series(scores ...interface{}) []models.Observation {
	day := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	out := make([]models.Observation, len(scores))
	for i, s := range scores {
		out[i] = models.Observation{Date: day.AddDate(0, 0, -i), Score: s, Rating: "fear"}
	}
	return out
}

func repeat(v float64, n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnalyzeEmpty(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	_, err = Analyze([]models.Observation{})
	var ee *EmptyInputError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EmptyInputError, got %v", err)
	}
}

func TestAnalyzeSingleObservation(t *testing.T) {
	res, err := Analyze(series(50.0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Signal.Action != models.ActionHold || res.Signal.Rating != "fear" {
		t.Fatalf("unexpected signal %+v", res.Signal)
	}
	if res.Change != nil {
		t.Fatalf("expected no change result, got %+v", res.Change)
	}
	if res.Trend != nil {
		t.Fatalf("expected no trend, got %+v", res.Trend)
	}
	if res.TrendClassification() != models.TrendUnknown {
		t.Fatalf("expected UNKNOWN trend label")
	}
	if res.Window == nil || res.Window.WindowSize != 1 || res.Window.Average != 50 {
		t.Fatalf("unexpected window %+v", res.Window)
	}
}

func TestAnalyzeSevenDays(t *testing.T) {
	res, err := Analyze(series(18.0, 20.0, 22.0, 25.0, 30.0, 28.0, 40.0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Signal.Action != models.ActionStrongBuy {
		t.Fatalf("expected STRONG_BUY, got %s", res.Signal.Action)
	}
	if res.Change == nil {
		t.Fatalf("expected change result")
	}
	if res.Change.DailyChange != -2 || res.Change.WeeklyChange != -22 || res.Change.WeeklyLookback != 6 {
		t.Fatalf("unexpected change %+v", res.Change)
	}
	if res.Trend != nil {
		t.Fatalf("expected no trend with 7 observations")
	}
}

func TestAnalyzeWeeklyFallsBackToOldest(t *testing.T) {
	res, err := Analyze(series(60.0, 50.0, 40.0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Change.WeeklyLookback != 2 || res.Change.WeeklyChange != 20 || res.Change.DailyChange != 10 {
		t.Fatalf("unexpected change %+v", res.Change)
	}
}

func TestAnalyzeZeroChangeIsNotAbsent(t *testing.T) {
	res, err := Analyze(series(33.0, 33.0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Change == nil || res.Change.DailyChange != 0 || res.Change.WeeklyChange != 0 {
		t.Fatalf("expected present zero change, got %+v", res.Change)
	}
}

func TestAnalyzeWindowStats(t *testing.T) {
	scores := make([]interface{}, 0, 40)
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			scores = append(scores, 20.0)
		} else {
			scores = append(scores, 80.0)
		}
	}
	// outside the 30-observation window, must be ignored
	scores = append(scores, repeat(10, 10)...)

	res, err := Analyze(series(scores...))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	w := res.Window
	if w.WindowSize != 30 || w.ExtremeFearDays != 15 || w.ExtremeGreedDays != 15 || !approx(w.Average, 50) {
		t.Fatalf("unexpected window %+v", w)
	}
}

func TestAnalyzeExtremeBoundaries(t *testing.T) {
	res, err := Analyze(series(25.0, 75.0, 25.01, 74.99))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Window.ExtremeFearDays != 1 || res.Window.ExtremeGreedDays != 1 {
		t.Fatalf("unexpected extreme counts %+v", res.Window)
	}
}

func TestAnalyzeTrend(t *testing.T) {
	cases := []struct {
		name   string
		recent float64
		older  float64
		want   models.Trend
	}{
		{"decreasing", 30, 40, models.TrendDecreasing},
		{"increasing", 40, 30, models.TrendIncreasing},
		{"stable", 40, 36, models.TrendStable},
		{"band edge low", 35, 40, models.TrendStable},
		{"band edge high", 45, 40, models.TrendStable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scores := append(repeat(c.recent, 10), repeat(c.older, 10)...)
			res, err := Analyze(series(scores...))
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Trend == nil {
				t.Fatalf("expected trend")
			}
			if res.Trend.Classification != c.want {
				t.Fatalf("got %s want %s (delta=%v)", res.Trend.Classification, c.want, res.Trend.Delta)
			}
			if res.Trend.OlderFromWindow {
				t.Fatalf("older side should come from observations 10-19")
			}
		})
	}
}

func TestAnalyzeTrendShortWindowFallsBackToAverage(t *testing.T) {
	// 12 observations: recent 10 average 30, window average (10*30+2*90)/12 = 40
	scores := append(repeat(30, 10), 90.0, 90.0)
	res, err := Analyze(series(scores...))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	tr := res.Trend
	if tr == nil || !tr.OlderFromWindow {
		t.Fatalf("expected window fallback, got %+v", tr)
	}
	if !approx(tr.OlderAverage, 40) || !approx(tr.Delta, -10) || tr.Classification != models.TrendDecreasing {
		t.Fatalf("unexpected trend %+v", tr)
	}
}

func TestAnalyzeNineObservationsHasNoTrend(t *testing.T) {
	res, err := Analyze(series(repeat(50, 9)...))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Trend != nil {
		t.Fatalf("expected no trend with 9 observations")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	_, err := Analyze(series("n/a", 20.0))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Index != 0 {
		t.Fatalf("expected ValidationError at index 0, got %v", err)
	}

	_, err = Analyze(series(20.0, 21.0, nil))
	if !errors.As(err, &ve) || ve.Index != 2 {
		t.Fatalf("expected ValidationError at index 2, got %v", err)
	}

	// beyond the window is never read
	scores := append(repeat(50, 30), "garbage")
	if _, err := Analyze(series(scores...)); err != nil {
		t.Fatalf("unexpected err for value outside window: %v", err)
	}
}

func TestAnalyzeStringScores(t *testing.T) {
	res, err := Analyze(series("71", "70"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Signal.Score != 71 || res.Signal.Action != models.ActionSell || res.Change.DailyChange != 1 {
		t.Fatalf("unexpected result %+v %+v", res.Signal, res.Change)
	}
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	in := series("18", 20.0, 22.0)
	snapshot := make([]models.Observation, len(in))
	copy(snapshot, in)
	if _, err := Analyze(in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input was modified")
	}
}
