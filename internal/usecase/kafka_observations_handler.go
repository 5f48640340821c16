package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
	pkgkafka "SentiPull/pkg/kafka"
)

// KafkaObservationsHandler consumes archived observations and writes them to storage.
type KafkaObservationsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaObservationsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaObservationsHandler {
	return &KafkaObservationsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaObservationsHandler) Topic() string { return h.topic }

// incoming message schema: models.ObservationMessage
func (h *KafkaObservationsHandler) Handle(ctx context.Context, b []byte) error {
	var m models.ObservationMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode observation: %w", err)
	}
	if m.Provider == "" || m.Date.IsZero() {
		h.metrics.RecordError("consumer_invalid")
		return fmt.Errorf("observation message missing provider or date")
	}

	err := h.storage.StoreBatch(ctx, m.Provider, []models.Observation{{Date: m.Date, Score: m.Score, Rating: m.Rating}})
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent(BackendClickHouse, m.Provider, 1)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaObservationsHandler)(nil)
