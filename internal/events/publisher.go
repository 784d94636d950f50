package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/kafka"
)

// Publisher sends a domain event keyed by the aggregate it concerns.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// KafkaPublisher wraps events in CloudEvents and writes them to one topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	source   string
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(producer *kafka.Producer, topic, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, source: source}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	ce, err := kafka.NewCloudEvent(p.source, eventType, data)
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}
	ce.Subject = key
	return p.producer.PublishEvent(ctx, p.topic, ce)
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher creates a new NoopPublisher.
func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *NoopPublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	p.logger.Debug("event publishing disabled",
		zap.String("event_type", eventType),
		zap.String("key", key),
	)
	return nil
}
