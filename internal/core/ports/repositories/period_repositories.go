package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// PeriodReader defines read operations for fiscal periods.
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForDate returns the period covering date, or ErrNotFound. When
	// lockForShare is set and a transaction is in scope the row is share-locked
	// until commit, so a concurrent close waits for the caller.
	FindPeriodForDate(ctx context.Context, organizationID string, date time.Time, lockForShare bool) (*domain.FiscalPeriod, error)

	ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error)

	// FindOverlappingPeriods returns periods sharing at least one day with [start, end].
	FindOverlappingPeriods(ctx context.Context, organizationID string, start, end time.Time) ([]domain.FiscalPeriod, error)
}

// PeriodWriter defines write operations for fiscal periods.
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// SetPeriodClosed flips is_closed to closed. It returns ErrStateConflict when
	// the period is already in the requested state.
	SetPeriodClosed(ctx context.Context, periodID string, closed bool, actorID string, at time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
