package audit

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
)

// LogSink writes audit events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ portssvc.AuditSink = (*LogSink)(nil)

func (s *LogSink) Record(ctx context.Context, event domain.AuditEvent) error {
	s.logger.InfoContext(ctx, "audit",
		slog.String("action", event.Action),
		slog.String("organization_id", event.OrganizationID),
		slog.String("actor_id", event.ActorID),
		slog.String("target_type", event.TargetType),
		slog.String("target_id", event.TargetID),
		slog.Any("metadata", event.Metadata),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
