package repository

import (
	"context"

	"SentiPull/internal/domain/models"
)

// SentimentSource yields an observation series, most recent first.
type SentimentSource interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]models.Observation, error)
}

type Publisher interface {
	PublishObservations(ctx context.Context, provider string, obs []models.Observation) error
	PublishSignal(ctx context.Context, ev *models.SignalEvent) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, provider string, obs []models.Observation) error
	Latest(ctx context.Context, provider string, n int) ([]models.Observation, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordFetch(provider string, seconds float64)
	RecordError(kind string)
	RecordScore(provider string, score float64)
	RecordSignal(action models.Action, trend models.Trend)
	RecordMessageSent(backend, provider string, n int)
}
