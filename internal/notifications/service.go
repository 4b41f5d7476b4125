package notifications

import (
	"context"
	"fmt"

	"florist/internal/shared/config"
	"florist/pkg/cache"
	"florist/pkg/logger"
)

// Service bundles the lifecycle publisher, the inbox and, when Kafka is
// enabled, the consumer feeding the inbox.
type Service struct {
	publisher  Publisher
	inbox      Inbox
	consumer   *InboxConsumer
	numWorkers int
}

// NewService wires the notification pipeline. With Kafka disabled the
// publisher drops events and the inbox stays empty.
func NewService(cfg *config.Config, cacheService cache.Service) (*Service, error) {
	svc := &Service{
		publisher:  NewNoopPublisher(),
		numWorkers: cfg.Kafka.NumWorkers,
	}
	if cacheService != nil {
		svc.inbox = NewInbox(cacheService, cfg.Redis.InboxSize, cfg.Redis.InboxTTL)
	}

	if !cfg.Kafka.Enabled {
		logger.GetDefault().Info("Kafka disabled, lifecycle events are not published")
		return svc, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.Topic

	publisher, err := NewKafkaPublisher(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle publisher: %w", err)
	}
	svc.publisher = publisher

	if svc.inbox != nil {
		consumerConfig := DefaultConsumerConfig()
		consumerConfig.Brokers = cfg.Kafka.Brokers
		consumerConfig.Topics = []string{cfg.Kafka.Topic}
		consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

		consumer, err := NewInboxConsumer(consumerConfig, svc.inbox)
		if err != nil {
			_ = publisher.Close()
			return nil, fmt.Errorf("failed to create inbox consumer: %w", err)
		}
		svc.consumer = consumer
	}

	return svc, nil
}

func (s *Service) Publisher() Publisher {
	return s.publisher
}

func (s *Service) Inbox() Inbox {
	return s.inbox
}

// Start begins consuming lifecycle events into the inbox.
func (s *Service) Start(ctx context.Context) {
	if s.consumer != nil {
		s.consumer.Start(ctx, s.numWorkers)
	}
}

func (s *Service) Stop() error {
	var firstErr error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := s.publisher.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
