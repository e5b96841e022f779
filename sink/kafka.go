package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mklimuk/transducer"
	"github.com/mklimuk/transducer/pressure"
)

// MessageWriter is the part of kafka.Writer used by the sink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Record is the JSON value of every Kafka message.
type Record struct {
	Device    string    `json:"device"`
	Model     string    `json:"model,omitempty"`
	Quantity  Quantity  `json:"quantity"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}

// Kafka writes one message per value, keyed by device so all values of a
// sensor land on the same partition.
type Kafka struct {
	w      MessageWriter
	device string
	model  string
	clock  transducer.Clock
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}

func NewKafka(w MessageWriter, device, model string, clock transducer.Clock) *Kafka {
	if clock == nil {
		clock = transducer.SystemClock{}
	}
	return &Kafka{w: w, device: device, model: model, clock: clock}
}

func (k *Kafka) For(q Quantity) pressure.Sink {
	return pressure.SinkFunc(func(ctx context.Context, value float64) error {
		rec := Record{
			Device:    k.device,
			Model:     k.model,
			Quantity:  q,
			Value:     value,
			Unit:      q.Unit(),
			Timestamp: k.clock.Now().UTC(),
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("kafka: marshal failed: %w", err)
		}
		err = k.w.WriteMessages(ctx, kafka.Message{Key: []byte(k.device), Value: b, Time: rec.Timestamp})
		if err != nil {
			return fmt.Errorf("kafka: write failed: %w", err)
		}
		return nil
	})
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
