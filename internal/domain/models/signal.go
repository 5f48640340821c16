package models

import "time"

// Action is the discrete recommendation derived from a sentiment score.
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionHold       Action = "HOLD"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// Actions lists every action from most to least bullish.
var Actions = []Action{ActionStrongBuy, ActionBuy, ActionHold, ActionSell, ActionStrongSell}

// Rank orders actions by buy preference: STRONG_BUY=0 ... STRONG_SELL=4, unknown=-1.
func (a Action) Rank() int {
	for i, x := range Actions {
		if x == a {
			return i
		}
	}
	return -1
}

// Trend is the short-term regime of the rolling average.
type Trend string

const (
	TrendDecreasing Trend = "DECREASING"
	TrendIncreasing Trend = "INCREASING"
	TrendStable     Trend = "STABLE"
	// TrendUnknown is only used by presentation layers when no trend was computed.
	TrendUnknown Trend = "UNKNOWN"
)

type SignalResult struct {
	Date        time.Time `json:"date"`
	Score       float64   `json:"score"`
	Rating      string    `json:"rating"`
	Action      Action    `json:"action"`
	Description string    `json:"description"`
}

type ChangeResult struct {
	DailyChange  float64 `json:"daily_change"`
	WeeklyChange float64 `json:"weekly_change"`

	// WeeklyLookback is the index the weekly change was measured against (6 unless history is shorter).
	WeeklyLookback int `json:"weekly_lookback"`
}

type WindowStats struct {
	WindowSize       int     `json:"window_size"`
	Average          float64 `json:"average"`
	ExtremeFearDays  int     `json:"extreme_fear_days"`
	ExtremeGreedDays int     `json:"extreme_greed_days"`
}

type TrendResult struct {
	Classification Trend   `json:"classification"`
	RecentAverage  float64 `json:"recent_average"`
	OlderAverage   float64 `json:"older_average"`
	Delta          float64 `json:"delta"`

	// OlderFromWindow is set when fewer than 20 observations exist and the
	// older side fell back to the whole window average.
	OlderFromWindow bool `json:"older_from_window"`
}

// Analysis is the full engine output. Optional parts are nil when history is too short.
type Analysis struct {
	Signal SignalResult  `json:"signal"`
	Change *ChangeResult `json:"change"`
	Window *WindowStats  `json:"window"`
	Trend  *TrendResult  `json:"trend"`
}

// TrendClassification returns the trend or TrendUnknown when absent.
func (a *Analysis) TrendClassification() Trend {
	if a == nil || a.Trend == nil {
		return TrendUnknown
	}
	return a.Trend.Classification
}

// SignalEvent is the analysis snapshot published to subscribers and Kafka.
type SignalEvent struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
	Analysis    *Analysis `json:"analysis"`
}
