package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/SscSPs/erp_finance_core/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	auditSink portssvc.AuditSink
	metrics   *metrics.Metrics
	clock     func() time.Time
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithAuditSink sets the destination of audit events.
func WithAuditSink(sink portssvc.AuditSink) Option {
	return func(s *BaseService) {
		s.auditSink = sink
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) {
		s.metrics = m
	}
}

func newBaseService(options []Option) BaseService {
	var b BaseService
	for _, option := range options {
		option(&b)
	}
	return b
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// fail logs err at a level matching its kind, counts it and returns it unchanged.
// Integrity failures and infrastructure errors are logged at ERROR, caller
// mistakes at WARN.
func (s *BaseService) fail(ctx context.Context, operation string, err error, keyvals ...any) error {
	if err == nil {
		return nil
	}
	s.metrics.OperationError(operation, err)
	args := append([]any{slog.String("operation", operation)}, keyvals...)
	if isCallerError(err) {
		s.LogWarn(ctx, err, "Operation rejected", args...)
	} else {
		s.LogError(ctx, err, "Operation failed", args...)
	}
	return err
}

func isCallerError(err error) bool {
	for _, sentinel := range []error{
		apperrors.ErrValidation, apperrors.ErrStateConflict, apperrors.ErrPeriodClosed,
		apperrors.ErrNotFound, apperrors.ErrForbidden, apperrors.ErrDuplicate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// audit hands an event to the sink. Sink failures are logged, never returned.
func (s *BaseService) audit(ctx context.Context, actor domain.Actor, action, targetType, targetID string, metadata map[string]any) {
	if s.auditSink == nil {
		return
	}
	event := domain.AuditEvent{
		OrganizationID: actor.OrganizationID,
		ActorID:        actor.UserID,
		Action:         action,
		TargetType:     targetType,
		TargetID:       targetID,
		Metadata:       metadata,
		OccurredAt:     s.Now(),
	}
	if err := s.auditSink.Record(ctx, event); err != nil {
		s.LogWarn(ctx, err, "Failed to record audit event",
			slog.String("action", action),
			slog.String("target_id", targetID))
	}
}

// sameOrganization hides resources of other organizations behind ErrNotFound.
func sameOrganization(actor domain.Actor, organizationID, resource, id string) error {
	if organizationID != actor.OrganizationID {
		return apperrors.NewNotFoundError(resource, id)
	}
	return nil
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
