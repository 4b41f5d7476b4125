package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"florist/internal/shared/constants"
	"florist/pkg/cache"
	"florist/pkg/logger"

	"github.com/google/uuid"
)

// Inbox stores the most recent notifications of each client.
type Inbox interface {
	Deliver(ctx context.Context, event *LifecycleEvent) error
	List(ctx context.Context, clientID uuid.UUID, limit int) ([]Notification, error)
}

type redisInbox struct {
	cache cache.Service
	size  int
	ttl   time.Duration
}

// NewInbox keeps at most size entries per client for ttl after the last delivery.
func NewInbox(cacheService cache.Service, size int, ttl time.Duration) Inbox {
	if size <= 0 {
		size = 50
	}
	return &redisInbox{cache: cacheService, size: size, ttl: ttl}
}

func (i *redisInbox) Deliver(ctx context.Context, event *LifecycleEvent) error {
	key := constants.BuildInboxKey(event.ClientID.String())
	if err := i.cache.PushCapped(ctx, key, event.ToNotification(), i.size, i.ttl); err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	return nil
}

func (i *redisInbox) List(ctx context.Context, clientID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 || limit > i.size {
		limit = i.size
	}

	raw, err := i.cache.Range(ctx, constants.BuildInboxKey(clientID.String()), limit)
	if err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(raw))
	for _, entry := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			logger.GetDefault().WarnContext(ctx, "Skipping malformed inbox entry",
				slog.String("client_id", clientID.String()), slog.Any("error", err))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
