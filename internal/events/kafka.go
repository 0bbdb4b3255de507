package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	logger.Info("Initializing Kafka publisher", map[string]interface{}{
		"brokers": brokers,
		"topic":   topic,
	})

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("kafka: write to %s: %w", p.topic, err)
	}

	logger.Debug("Event published to Kafka", map[string]interface{}{
		"type":  event.Type,
		"key":   event.Key(),
		"topic": p.topic,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}
