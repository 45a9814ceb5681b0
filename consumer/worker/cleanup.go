package worker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tnqbao/gau-drop-service/infra"
	"github.com/tnqbao/gau-drop-service/infra/produce"
)

// CleanupConsumer retries blob removals that failed best-effort on the
// request path.
type CleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *CleanupConsumer {
	return &CleanupConsumer{
		channel: channel,
		infra:   infra,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.CleanupQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for cleanup jobs on queue: %s", produce.CleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	var payload produce.CleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message")
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Removing %d blobs (%s)", len(payload.BlobPaths), payload.Reason)

	// The request context is long gone, removal runs on a background context
	bgCtx := context.Background()

	var failed []string
	for _, p := range payload.BlobPaths {
		if err := c.infra.BlobStore.Remove(bgCtx, p); err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to remove blob %s", p)
			failed = append(failed, p)
		}
	}

	if len(failed) > 0 {
		c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] %d blobs still pending removal, requeueing", len(failed))
		_ = msg.Nack(false, true) // Requeue
		return
	}

	_ = msg.Ack(false)
}
