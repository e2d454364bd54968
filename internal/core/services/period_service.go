package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/google/uuid"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	periodRepo portsrepo.PeriodRepositoryFacade
	adminRoles []string
}

// NewPeriodService creates a new period lock manager.
func NewPeriodService(txManager portsrepo.TransactionManager, periodRepo portsrepo.PeriodRepositoryFacade, policy LedgerPolicy, options ...Option) portssvc.PeriodSvcFacade {
	return &periodService{
		BaseService: newBaseService(options),
		txManager:   txManager,
		periodRepo:  periodRepo,
		adminRoles:  policy.PeriodAdminRoles,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// AssertOpen treats a date without a covering period as closed.
func (s *periodService) AssertOpen(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	day := domain.DateOnly(date)
	period, err := s.periodRepo.FindPeriodForDate(ctx, organizationID, day, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewPeriodClosedError(organizationID, day.Format(domain.DateLayout))
		}
		return nil, err
	}
	if period.IsClosed {
		return nil, apperrors.NewPeriodClosedError(organizationID, day.Format(domain.DateLayout))
	}
	return period, nil
}

func (s *periodService) CreatePeriod(ctx context.Context, actor domain.Actor, req dto.CreatePeriodRequest) (*domain.FiscalPeriod, error) {
	const op = "create_period"
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("%s", err.Error()))
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("%s", err.Error()))
	}
	if end.Before(start) {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("period end %s is before start %s", req.EndDate, req.StartDate))
	}
	if req.Name == "" {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("period name is required"))
	}

	now := s.Now()
	period := domain.FiscalPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		Name:           req.Name,
		StartDate:      start,
		EndDate:        end,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, actor.OrganizationID, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return apperrors.NewValidationError("period %s to %s overlaps period %q", req.StartDate, req.EndDate, overlapping[0].Name)
		}
		return s.periodRepo.SavePeriod(ctx, period)
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("name", req.Name))
	}
	return &period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, actor.OrganizationID)
	if err != nil {
		return nil, s.fail(ctx, "list_periods", err)
	}
	return periods, nil
}

func (s *periodService) ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.setClosed(ctx, actor, periodID, true)
	if err != nil {
		return nil, s.fail(ctx, "close_period", err, slog.String("period_id", periodID))
	}
	s.LogInfo(ctx, "Fiscal period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	s.audit(ctx, actor, domain.AuditPeriodClosed, "fiscal_period", periodID, map[string]any{"name": period.Name})
	return period, nil
}

func (s *periodService) ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string, reason string) (*domain.FiscalPeriod, error) {
	if reason == "" {
		return nil, s.fail(ctx, "reopen_period", apperrors.NewValidationError("a reason is required to reopen a period"))
	}
	period, err := s.setClosed(ctx, actor, periodID, false)
	if err != nil {
		return nil, s.fail(ctx, "reopen_period", err, slog.String("period_id", periodID))
	}
	s.LogInfo(ctx, "Fiscal period reopened", slog.String("period_id", periodID), slog.String("reason", reason))
	s.audit(ctx, actor, domain.AuditPeriodReopened, "fiscal_period", periodID, map[string]any{"name": period.Name, "reason": reason})
	return period, nil
}

func (s *periodService) setClosed(ctx context.Context, actor domain.Actor, periodID string, closed bool) (*domain.FiscalPeriod, error) {
	if !containsRole(s.adminRoles, actor.Role) {
		return nil, apperrors.NewForbiddenError("role %q may not close or reopen fiscal periods", actor.Role)
	}
	var period *domain.FiscalPeriod
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.periodRepo.FindPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if err := sameOrganization(actor, period.OrganizationID, "fiscal period", periodID); err != nil {
			return err
		}
		if period.IsClosed == closed {
			state := "open"
			if closed {
				state = "closed"
			}
			return apperrors.NewStateConflictError("period %q is already %s", period.Name, state)
		}
		now := s.Now()
		if err := s.periodRepo.SetPeriodClosed(ctx, periodID, closed, actor.UserID, now); err != nil {
			return err
		}
		period.IsClosed = closed
		period.LastUpdatedAt = now
		period.LastUpdatedBy = actor.UserID
		if closed {
			period.ClosedBy = &actor.UserID
			period.ClosedAt = &now
		} else {
			period.ClosedBy = nil
			period.ClosedAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}
