package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded booking event.
type EventHandler func(context.Context, BookingEvent) error

// Consumer reads booking events for a consumer group. Offsets are committed
// after the handler has run, so a crash replays the in-flight event.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MinBytes:          1,
			MaxBytes:          1 << 20,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is done or the reader fails. Undecodable messages
// and handler errors are logged and the offset is committed anyway.
func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch booking event: %w", err)
		}

		if err := HandleMessage(ctx, msg, handle); err != nil {
			log.Printf("WARNING: booking event %s/%d at offset %d: %v", msg.Topic, msg.Partition, msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

// HandleMessage decodes msg as a BookingEvent and passes it to handle.
func HandleMessage(ctx context.Context, msg kafka.Message, handle EventHandler) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decode booking event: %w", err)
	}
	return handle(ctx, event)
}
