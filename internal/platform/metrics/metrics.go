package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

// Low-cardinality error reasons.
const (
	ReasonValidation      = "validation"
	ReasonStateConflict   = "state_conflict"
	ReasonPeriodClosed    = "period_closed"
	ReasonIntegrity       = "integrity"
	ReasonNotFound        = "not_found"
	ReasonForbidden       = "forbidden"
	ReasonDuplicate       = "duplicate"
	ReasonDeadline        = "deadline_exceeded"
	ReasonSerialization   = "serialization_failure"
	ReasonUniqueViolation = "unique_violation"
	ReasonUnknown         = "unknown"
)

// Config carries the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the collectors of the accounting core. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	journalTransitions *prometheus.CounterVec
	operationErrors    *prometheus.CounterVec
	workflowDecisions  *prometheus.CounterVec
	statements         *prometheus.CounterVec
	statementDuration  *prometheus.HistogramVec
	httpDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "erp-finance-core"
	}
	environment := cfg.Environment
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &Metrics{
		journalTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "erp_journal_transitions_total",
			Help:        "Journal entry status transitions.",
			ConstLabels: constLabels,
		}, []string{"to"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "erp_operation_errors_total",
			Help:        "Failed core operations by low-cardinality reason.",
			ConstLabels: constLabels,
		}, []string{"operation", "reason"}),
		workflowDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "erp_workflow_decisions_total",
			Help:        "Workflow step decisions by outcome.",
			ConstLabels: constLabels,
		}, []string{"resource_type", "decision"}),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "erp_statements_generated_total",
			Help:        "Generated financial statements by kind and cache outcome.",
			ConstLabels: constLabels,
		}, []string{"kind", "cached"}),
		statementDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "erp_statement_duration_seconds",
			Help:        "Statement generation latency.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		}, []string{"kind"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "erp_http_request_duration_seconds",
			Help:        "HTTP request latency by route and status.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{
		m.journalTransitions, m.operationErrors, m.workflowDecisions,
		m.statements, m.statementDuration, m.httpDuration,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// JournalTransition counts an entry reaching status to.
func (m *Metrics) JournalTransition(to string) {
	if m == nil {
		return
	}
	m.journalTransitions.WithLabelValues(to).Inc()
}

// OperationError counts a failed operation under the reason classified from err.
func (m *Metrics) OperationError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.operationErrors.WithLabelValues(operation, ClassifyReason(err)).Inc()
}

// WorkflowDecision counts a step decision.
func (m *Metrics) WorkflowDecision(resourceType, decision string) {
	if m == nil {
		return
	}
	m.workflowDecisions.WithLabelValues(resourceType, decision).Inc()
}

// StatementGenerated records a statement generation and its latency.
func (m *Metrics) StatementGenerated(kind string, cached bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(kind, strconv.FormatBool(cached)).Inc()
	m.statementDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ClassifyReason maps an error to a low-cardinality label.
func ClassifyReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonDeadline
	case errors.Is(err, apperrors.ErrValidation):
		return ReasonValidation
	case errors.Is(err, apperrors.ErrStateConflict):
		return ReasonStateConflict
	case errors.Is(err, apperrors.ErrPeriodClosed):
		return ReasonPeriodClosed
	case errors.Is(err, apperrors.ErrIntegrity):
		return ReasonIntegrity
	case errors.Is(err, apperrors.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return ReasonForbidden
	case errors.Is(err, apperrors.ErrDuplicate):
		return ReasonDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001":
			return ReasonSerialization
		case "23505":
			return ReasonUniqueViolation
		}
	}
	return ReasonUnknown
}
