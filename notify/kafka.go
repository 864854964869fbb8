package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaNotifier publishes booking events keyed by booking id, so every event
// for one booking lands on the same partition in order.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(cfg KafkaConfig) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (k *KafkaNotifier) BookingStatusChanged(ctx context.Context, ev BookingStatusChanged) error {
	value, err := json.Marshal(struct {
		EventType string `json:"eventType"`
		BookingStatusChanged
	}{"BookingStatusChanged", ev})
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.BookingID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
