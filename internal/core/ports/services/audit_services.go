package services

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// AuditSink receives the metadata of every state-changing action.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
