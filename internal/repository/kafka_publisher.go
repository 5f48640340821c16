package repository

import (
	"context"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	pkgkafka "SentiPull/pkg/kafka"
)

type batchProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher implements Publisher for Kafka. Observations are keyed by
// provider so one provider's series stays on one partition.
type KafkaPublisher struct {
	producer    batchProducer
	topic       string
	signalTopic string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic, signalTopic string) drepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic, signalTopic: signalTopic}
}

func (p *KafkaPublisher) PublishObservations(ctx context.Context, provider string, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(obs))
	for i, o := range obs {
		msgs[i] = pkgkafka.Message{
			Key: []byte(provider),
			Value: models.ObservationMessage{
				Provider: provider,
				Date:     o.Date,
				Score:    o.Score,
				Rating:   o.Rating,
			},
			Headers: map[string]string{"provider": provider},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) PublishSignal(ctx context.Context, ev *models.SignalEvent) error {
	if ev == nil || p.signalTopic == "" {
		return nil
	}
	return p.producer.Publish(ctx, p.signalTopic, []byte(ev.Provider), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
