package usecase

import (
	"context"
	"fmt"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
)

// Archive backends.
const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// ObservationProcessor routes fetched batches to the configured backend.
type ObservationProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

// NewObservationProcessor creates a new ObservationProcessor instance.
func NewObservationProcessor(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string) *ObservationProcessor {
	if backend == "" {
		backend = BackendNone
	}
	return &ObservationProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Backend returns the configured backend name.
func (p *ObservationProcessor) Backend() string { return p.backend }

// Process archives a batch of one provider.
func (p *ObservationProcessor) Process(ctx context.Context, provider string, obs []models.Observation) error {
	if len(obs) == 0 || p.backend == BackendNone {
		return nil
	}

	var err error
	switch p.backend {
	case BackendKafka:
		if p.pub == nil {
			return fmt.Errorf("kafka backend without publisher")
		}
		err = p.pub.PublishObservations(ctx, provider, obs)
	case BackendClickHouse:
		if p.store == nil {
			return fmt.Errorf("clickhouse backend without store")
		}
		err = p.store.StoreBatch(ctx, provider, obs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}
	p.metrics.RecordMessageSent(p.backend, provider, len(obs))
	return nil
}

// Close closes underlying resources if available.
func (p *ObservationProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
