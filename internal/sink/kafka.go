package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines the part of a Kafka writer the sink needs.
// This allows for easy mocking in unit tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink produces every update as a JSON message keyed by cab id, so one cab's updates stay
// ordered within a partition.
type KafkaSink struct {
	cabID  string
	writer KafkaWriter
	now    clock
}

func NewKafkaSink(cabID string, writer KafkaWriter) *KafkaSink {
	return &KafkaSink{cabID: cabID, writer: writer, now: utcNow}
}

func (ks *KafkaSink) UpdateLocation(ctx context.Context, coordinates string) error {
	update := models.LocationUpdate{CabID: ks.cabID, Coordinates: coordinates, RecordedAt: ks.now()}
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode location update: %w", err)
	}

	err = ks.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ks.cabID),
		Value: payload,
		Time:  update.RecordedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to produce location update: %w", err)
	}

	return nil
}

func (ks *KafkaSink) Close() error {
	return ks.writer.Close()
}
