package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/config"
	"github.com/couchcryptid/flood-monitor/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() domain.FloodRecord {
	return domain.FloodRecord{
		ID:            "http://environment.data.gov.uk/flood-monitoring/id/floods/112WAFTUBA",
		EAAreaName:    "Wessex",
		FloodArea:     domain.FloodArea{County: "Wiltshire", RiverOrSea: "Bristol River Avon"},
		Severity:      "Flood Alert",
		SeverityLevel: 3,
	}
}

func TestSerializeToMessage(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	msg, err := serializeToMessage(testRecord(), fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte(testRecord().ID), msg.Key)
	assert.Contains(t, string(msg.Value), `"riverOrSea":"Bristol River Avon"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "severity_level", msg.Headers[0].Key)
	assert.Equal(t, []byte("3"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-01-03T12:00:00Z"), msg.Headers[1].Value)

	var roundtrip domain.FloodRecord
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, testRecord(), roundtrip)
}

func TestWriter_Publish(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: discardLogger()}

	second := testRecord()
	second.ID = "other"
	require.NoError(t, w.Publish(context.Background(), []domain.FloodRecord{testRecord(), second}, time.Now()))

	require.Len(t, fw.msgs, 2)
	assert.Equal(t, []byte("other"), fw.msgs[1].Key)
}

func TestWriter_PublishEmpty(t *testing.T) {
	fw := &fakeWriter{err: errors.New("should not be called")}
	w := &Writer{writer: fw, logger: discardLogger()}

	require.NoError(t, w.Publish(context.Background(), nil, time.Now()))
}

func TestWriter_PublishError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	w := &Writer{writer: fw, logger: discardLogger()}

	err := w.Publish(context.Background(), []domain.FloodRecord{testRecord()}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestWriter_Close(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: discardLogger()}

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestNewWriter_UsesConfig(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "floods"}, discardLogger())

	kw, ok := w.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "floods", kw.Topic)
	assert.Equal(t, "localhost:9092", kw.Addr.String())
	require.NoError(t, w.Close())
}
