package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/config"
	"github.com/couchcryptid/flood-monitor/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces one message per flood record to a Kafka topic.
// It implements monitor.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured flood topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes all records in a single WriteMessages call.
// Records sharing an ID land on the same partition.
func (w *Writer) Publish(ctx context.Context, records []domain.FloodRecord, fetchedAt time.Time) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], fetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write flood records: %w", err)
	}
	w.logger.Debug("published flood records", "count", len(msgs))
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FloodRecord into a Kafka message.
func serializeToMessage(record domain.FloodRecord, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize flood record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "severity_level", Value: []byte(strconv.Itoa(record.SeverityLevel))},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
