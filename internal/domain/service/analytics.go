package service

import "SentiPull/internal/domain/models"

// SignalEngine turns an observation series into an analysis. Implementations
// must be pure: no I/O and identical output for identical input.
type SignalEngine interface {
	Analyze(obs []models.Observation) (*models.Analysis, error)
}

// ScoreClassifier maps a single raw score to an action.
type ScoreClassifier interface {
	ClassifyRaw(v interface{}) (models.Action, string, error)
}
