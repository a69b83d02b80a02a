package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// SearchEventHandler processes one decoded search event. A returned error
// stops the consumer.
type SearchEventHandler func(ctx context.Context, event SearchEvent) error

type Consumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads search events until ctx ends or handler fails.
func (c *Consumer) Consume(ctx context.Context, handler SearchEventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := c.handle(ctx, msg, handler); err != nil {
			return err
		}
	}
}

// handle logs and skips messages that do not decode.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message, handler SearchEventHandler) error {
	event, err := DecodeSearchEvent(msg)
	if err != nil {
		c.logger.Warn("decode search event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	return handler(ctx, event)
}

// DecodeSearchEvent unpacks a message written by Producer.Publish.
func DecodeSearchEvent(msg kafka.Message) (SearchEvent, error) {
	var event SearchEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
