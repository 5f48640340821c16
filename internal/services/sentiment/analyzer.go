package sentiment

import "SentiPull/internal/domain/models"

// Lookback and window sizes.
const (
	WindowSize     = 30
	DailyLookback  = 1
	WeeklyLookback = 6
	TrendSubWindow = 10
	// TrendBand is an absolute-points hysteresis band around zero difference.
	TrendBand = 5.0
)

// Extreme-day thresholds for window statistics. They match the outer
// classifier bands today but are tuned independently.
const (
	ExtremeFearMax  = 25.0
	ExtremeGreedMin = 75.0
)

// Analyze computes the signal, changes, window stats and trend for a series
// ordered most recent first. The input slice is never modified.
func Analyze(obs []models.Observation) (*models.Analysis, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyInput
	}

	n := min(WindowSize, len(obs))
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		f, reason := coerce(obs[i].Score)
		if reason != "" {
			return nil, &ValidationError{Index: i, Value: obs[i].Score, Reason: reason}
		}
		scores[i] = f
	}

	action, desc := Classify(scores[0])
	res := &models.Analysis{
		Signal: models.SignalResult{
			Date:        obs[0].Date,
			Score:       scores[0],
			Rating:      obs[0].Rating,
			Action:      action,
			Description: desc,
		},
		Change: changes(scores),
		Window: window(scores),
	}
	res.Trend = trend(scores, res.Window)
	return res, nil
}

// changes needs at least two observations. Shorter histories measure the
// weekly change against the oldest observation available.
func changes(scores []float64) *models.ChangeResult {
	if len(scores) <= DailyLookback {
		return nil
	}
	wk := min(WeeklyLookback, len(scores)-1)
	return &models.ChangeResult{
		DailyChange:    scores[0] - scores[DailyLookback],
		WeeklyChange:   scores[0] - scores[wk],
		WeeklyLookback: wk,
	}
}

func window(scores []float64) *models.WindowStats {
	if len(scores) == 0 {
		return nil
	}
	ws := &models.WindowStats{WindowSize: len(scores), Average: mean(scores)}
	for _, s := range scores {
		if s <= ExtremeFearMax {
			ws.ExtremeFearDays++
		}
		if s >= ExtremeGreedMin {
			ws.ExtremeGreedDays++
		}
	}
	return ws
}

func trend(scores []float64, ws *models.WindowStats) *models.TrendResult {
	if ws == nil || len(scores) < TrendSubWindow {
		return nil
	}
	tr := &models.TrendResult{RecentAverage: mean(scores[:TrendSubWindow])}
	if len(scores) >= 2*TrendSubWindow {
		tr.OlderAverage = mean(scores[TrendSubWindow : 2*TrendSubWindow])
	} else {
		tr.OlderAverage = ws.Average
		tr.OlderFromWindow = true
	}
	tr.Delta = tr.RecentAverage - tr.OlderAverage
	switch {
	case tr.Delta < -TrendBand:
		tr.Classification = models.TrendDecreasing
	case tr.Delta > TrendBand:
		tr.Classification = models.TrendIncreasing
	default:
		tr.Classification = models.TrendStable
	}
	return tr
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
