package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
)

// PeriodLockSvc guards postings against closed periods.
type PeriodLockSvc interface {
	// AssertOpen returns ErrPeriodClosed unless an open period covers date.
	// Inside a transaction the period stays share-locked until commit.
	AssertOpen(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error)
}

// PeriodAdminSvc administers fiscal periods.
type PeriodAdminSvc interface {
	CreatePeriod(ctx context.Context, actor domain.Actor, req dto.CreatePeriodRequest) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string, reason string) (*domain.FiscalPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces.
type PeriodSvcFacade interface {
	PeriodLockSvc
	PeriodAdminSvc
}
