package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	CleanupQueue      = "drop.cleanup"
	CleanupExchange   = "drop.exchange"
	CleanupRoutingKey = "drop.cleanup"
)

// CleanupMessage lists blob paths whose best-effort deletion failed on the
// request path. A consumer retries the removal asynchronously so orphaned
// blobs do not accumulate.
type CleanupMessage struct {
	DropID    string   `json:"drop_id"`
	BlobPaths []string `json:"blob_paths"`
	Reason    string   `json:"reason"`
	Timestamp int64    `json:"timestamp"`
}

// CleanupService publishes blob cleanup jobs to RabbitMQ.
type CleanupService struct {
	channel *amqp.Channel
}

func InitCleanupService(channel *amqp.Channel) *CleanupService {
	service := &CleanupService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		CleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Cleanup exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		CleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		CleanupQueue,
		CleanupRoutingKey,
		CleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Cleanup queue: " + err.Error())
	}

	return service
}

// PublishCleanup enqueues the given blob paths for asynchronous removal.
func (s *CleanupService) PublishCleanup(ctx context.Context, dropID string, blobPaths []string, reason string) error {
	msg := CleanupMessage{
		DropID:    dropID,
		BlobPaths: blobPaths,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(ctx,
		CleanupExchange,
		CleanupRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
