package models

import "time"

// Observation is a single point of the sentiment series.
// Score keeps the raw upstream value; it is coerced to a number by the engine.
type Observation struct {
	Date   time.Time   `json:"date"`
	Score  interface{} `json:"score"`
	Rating string      `json:"rating,omitempty"`
}

// Series is an observation batch as fetched from one provider, most recent first.
type Series struct {
	Provider     string        `json:"provider"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// ObservationMessage is the wire form of one observation on the archive topic.
type ObservationMessage struct {
	Provider string      `json:"provider"`
	Date     time.Time   `json:"date"`
	Score    interface{} `json:"score"`
	Rating   string      `json:"rating,omitempty"`
}
