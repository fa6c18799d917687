package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/store"
)

const (
	updatesChannel = "scan_updates"
	errorsChannel  = "scan_errors"
)

type statusUpdate struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// updateBus fans scan status changes out over Redis pub/sub. A bus without
// a client does nothing, and stream handlers fall back to polling.
type updateBus struct {
	client *redis.Client
	log    *logger.Logger
}

func (b *updateBus) publish(ctx context.Context, scan *store.Scan) {
	if b == nil || b.client == nil {
		return
	}
	data, err := json.Marshal(statusUpdate{
		ID:        scan.ID,
		Domain:    scan.Domain,
		Status:    scan.Status,
		Error:     scan.ErrorMessage,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := b.client.Publish(ctx, updatesChannel, data).Err(); err != nil {
		b.log.Warnw("Failed to publish scan update", "scan_id", scan.ID, "error", err)
	}
}

// notifyError publishes an unexpected scan failure on errorsChannel.
func (b *updateBus) notifyError(ctx context.Context, scanErr error) {
	if b == nil || b.client == nil {
		return
	}
	data, err := json.Marshal(map[string]string{
		"error":       scanErr.Error(),
		"reported_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := b.client.Publish(ctx, errorsChannel, data).Err(); err != nil {
		b.log.Warnw("Failed to publish scan error", "error", err)
	}
}

// subscribe signals on the returned channel whenever an update for scanID
// is published.
func (b *updateBus) subscribe(ctx context.Context, scanID string) (<-chan struct{}, func()) {
	if b == nil || b.client == nil {
		return nil, func() {}
	}

	pubsub := b.client.Subscribe(ctx, updatesChannel)
	notify := make(chan struct{}, 1)
	go func() {
		for msg := range pubsub.Channel() {
			var update statusUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil || update.ID != scanID {
				continue
			}
			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	return notify, func() {
		_ = pubsub.Close()
	}
}

func (b *updateBus) ping(ctx context.Context) error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Ping(ctx).Err()
}
