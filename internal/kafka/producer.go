package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer writes booking events as JSON. Events are keyed by booking ID, so
// the hash balancer keeps one booking's events ordered on one partition.
type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", topic, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}

	log.Printf("event published: topic=%s booking=%s", topic, key)
	return nil
}

// PublishWithRetry makes up to attempts tries, backing off linearly by
// 500ms per failed try.
func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, attempts int) error {
	var err error
	for try := 1; try <= attempts; try++ {
		if err = p.Publish(ctx, topic, key, payload); err == nil {
			return nil
		}
		log.Printf("WARNING: publish to %s (booking %s) try %d/%d: %v", topic, key, try, attempts, err)
		if try == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(try) * 500 * time.Millisecond):
		}
	}
	return fmt.Errorf("publish to %s gave up after %d tries: %w", topic, attempts, err)
}

// Retrying adapts PublishWithRetry to the single-call Publish shape the
// booking service expects.
type Retrying struct {
	producer *Producer
	attempts int
}

func (p *Producer) WithRetries(attempts int) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{producer: p, attempts: attempts}
}

func (r *Retrying) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	return r.producer.PublishWithRetry(ctx, topic, key, payload, r.attempts)
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// CheckConnection dials the first broker and reads the cluster metadata.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no Kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka %s: %w", p.brokers[0], err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("read kafka brokers: %w", err)
	}
	return nil
}
