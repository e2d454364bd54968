package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
)

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes audit events as JSON, keyed by organization so one
// organization's events stay ordered within a partition.
type KafkaSink struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewKafkaSink builds a synchronous writer for topic on brokers.
func NewKafkaSink(logger *slog.Logger, brokers []string, topic string) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 5 * time.Second,
	}
	return newKafkaSinkWithWriter(logger, writer, topic)
}

func newKafkaSinkWithWriter(logger *slog.Logger, writer KafkaWriter, topic string) *KafkaSink {
	return &KafkaSink{logger: logger, writer: writer, topic: topic}
}

var _ portssvc.AuditSink = (*KafkaSink)(nil)

func (s *KafkaSink) Record(ctx context.Context, event domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event %s: %w", event.Action, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrganizationID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "audit-action", Value: []byte(event.Action)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish audit event %s to %s: %w", event.Action, s.topic, err)
	}
	s.logger.DebugContext(ctx, "audit event published", "topic", s.topic, "action", event.Action, "target_id", event.TargetID)
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
