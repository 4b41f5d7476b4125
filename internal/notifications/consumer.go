package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"florist/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeoutMs  int
	HeartbeatMs       int
	RetryBackoffMs    int
	MaxProcessingTime time.Duration
	OffsetOldest      bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "florist-reservation-inbox",
		Topics:            []string{"reservation-events"},
		SessionTimeoutMs:  30000,
		HeartbeatMs:       3000,
		RetryBackoffMs:    100,
		MaxProcessingTime: time.Minute,
		OffsetOldest:      true,
	}
}

// InboxConsumer reads lifecycle events and delivers them to client inboxes.
type InboxConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	inbox         Inbox
	wg            sync.WaitGroup
	cancel        context.CancelFunc
}

func NewInboxConsumer(config *ConsumerConfig, inbox Inbox) (*InboxConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_8_0_0

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &InboxConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		inbox:         inbox,
	}, nil
}

// Start launches numWorkers consume loops; they stop when ctx is cancelled or Stop is called.
func (c *InboxConsumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	ctx, c.cancel = context.WithCancel(ctx)
	log := logger.GetDefault()
	log.Info("Starting inbox consumer", slog.Int("workers", numWorkers), slog.Any("topics", c.config.Topics))

	go func() {
		for err := range c.consumerGroup.Errors() {
			log.Warn("Consumer group error", slog.Any("error", err))
		}
	}()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
}

func (c *InboxConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		inbox:    c.inbox,
		workerID: workerID,
		backoff:  time.Duration(c.config.RetryBackoffMs) * time.Millisecond,
	}

	for {
		if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
			logger.GetDefault().Warn("Inbox worker consume error",
				slog.Int("worker", workerID), slog.Any("error", err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *InboxConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	logger.GetDefault().Info("Inbox consumer stopped")
	return nil
}

type consumerGroupHandler struct {
	inbox    Inbox
	workerID int
	backoff  time.Duration
}

const maxDeliveryBackoff = 30 * time.Second

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if err := h.deliver(session.Context(), message); err != nil && !isPermanent(err) {
				// Session ended before delivery succeeded: leave the offset uncommitted.
				return nil
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// deliver retries transient inbox failures in place until the session ends.
// Offsets are cumulative, so a later message must never be marked past this one.
func (h *consumerGroupHandler) deliver(ctx context.Context, message *sarama.ConsumerMessage) error {
	backoff := h.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	for {
		err := deliverMessage(ctx, h.inbox, message.Value)
		if err == nil {
			return nil
		}
		logger.GetDefault().Warn("Failed to deliver lifecycle event",
			slog.Int("worker", h.workerID),
			slog.Int64("offset", message.Offset),
			slog.Duration("retry_in", backoff),
			slog.Any("error", err))
		if isPermanent(err) {
			return err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > maxDeliveryBackoff {
			backoff = maxDeliveryBackoff
		}
	}
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func isPermanent(err error) bool {
	_, ok := err.(permanentError)
	return ok
}

func deliverMessage(ctx context.Context, inbox Inbox, value []byte) error {
	var event LifecycleEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return permanentError{fmt.Errorf("failed to unmarshal event: %w", err)}
	}
	return inbox.Deliver(ctx, &event)
}
