package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/core/statements"
)

const (
	statementTrialBalance    = "trial_balance"
	statementIncomeStatement = "income_statement"
	statementBalanceSheet    = "balance_sheet"
	statementCashFlow        = "cash_flow"
)

// statementService generates statements from one read snapshot of the posted ledger.
type statementService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	reportingRepo portsrepo.ReportingRepository
	cache         portssvc.StatementCache
}

// NewStatementService creates a statement generator. cache may be nil.
func NewStatementService(txManager portsrepo.TransactionManager, reportingRepo portsrepo.ReportingRepository, cache portssvc.StatementCache, options ...Option) portssvc.StatementSvc {
	return &statementService{
		BaseService:   newBaseService(options),
		txManager:     txManager,
		reportingRepo: reportingRepo,
		cache:         cache,
	}
}

var _ portssvc.StatementSvc = (*statementService)(nil)

func (s *statementService) GetTrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error) {
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		asOf = &d
	}
	return generate(ctx, s, actor, statementTrialBalance, formatRange(nil, asOf), func(ctx context.Context) (domain.TrialBalance, error) {
		activity, err := s.reportingRepo.GetAccountActivity(ctx, actor.OrganizationID, nil, asOf)
		if err != nil {
			return domain.TrialBalance{}, err
		}
		return statements.TrialBalance(actor.OrganizationID, asOf, activity)
	})
}

func (s *statementService) GenerateIncomeStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.IncomeStatement, error) {
	start, end = domain.DateOnly(start), domain.DateOnly(end)
	if err := validateRange(start, end); err != nil {
		return nil, s.fail(ctx, statementIncomeStatement, err)
	}
	return generate(ctx, s, actor, statementIncomeStatement, formatRange(&start, &end), func(ctx context.Context) (domain.IncomeStatement, error) {
		activity, err := s.reportingRepo.GetAccountActivity(ctx, actor.OrganizationID, &start, &end)
		if err != nil {
			return domain.IncomeStatement{}, err
		}
		return statements.IncomeStatement(actor.OrganizationID, start, end, activity)
	})
}

func (s *statementService) GenerateBalanceSheet(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = domain.DateOnly(asOf)
	return generate(ctx, s, actor, statementBalanceSheet, formatRange(nil, &asOf), func(ctx context.Context) (domain.BalanceSheet, error) {
		activity, err := s.reportingRepo.GetAccountActivity(ctx, actor.OrganizationID, nil, &asOf)
		if err != nil {
			return domain.BalanceSheet{}, err
		}
		return statements.BalanceSheet(actor.OrganizationID, asOf, activity)
	})
}

func (s *statementService) GenerateCashFlowStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.CashFlowStatement, error) {
	start, end = domain.DateOnly(start), domain.DateOnly(end)
	if err := validateRange(start, end); err != nil {
		return nil, s.fail(ctx, statementCashFlow, err)
	}
	return generate(ctx, s, actor, statementCashFlow, formatRange(&start, &end), func(ctx context.Context) (domain.CashFlowStatement, error) {
		period, err := s.reportingRepo.GetAccountActivity(ctx, actor.OrganizationID, &start, &end)
		if err != nil {
			return domain.CashFlowStatement{}, err
		}
		prior := start.AddDate(0, 0, -1)
		opening, err := s.reportingRepo.GetAccountActivity(ctx, actor.OrganizationID, nil, &prior)
		if err != nil {
			return domain.CashFlowStatement{}, err
		}
		cf, err := statements.CashFlow(actor.OrganizationID, start, end, period, opening)
		if err != nil {
			return cf, err
		}
		if !cf.Reconciled {
			return cf, apperrors.NewIntegrityError("cash flow for organization %s does not reconcile: net change %s, cash change %s",
				actor.OrganizationID, cf.NetChange.Dollars(), cf.CashChange.Dollars())
		}
		return cf, nil
	})
}

// generate runs build inside a read snapshot, consulting the cache under a key
// bound to the ledger version. Reports failing an integrity check are returned
// along with the error and never cached.
func generate[T any](ctx context.Context, s *statementService, actor domain.Actor, kind, window string, build func(context.Context) (T, error)) (*T, error) {
	started := time.Now()
	var (
		report T
		key    string
		hit    bool
		built  error
	)
	err := s.txManager.WithinReadSnapshot(ctx, func(ctx context.Context) error {
		version, err := s.reportingRepo.GetLedgerVersion(ctx, actor.OrganizationID)
		if err != nil {
			return err
		}
		key = fmt.Sprintf("%s|%s|%s|v%d", actor.OrganizationID, kind, window, version)
		if s.cache != nil {
			found, err := s.cache.Get(ctx, key, &report)
			if err != nil {
				s.LogWarn(ctx, err, "Statement cache read failed", slog.String("key", key))
			}
			if found && err == nil {
				hit = true
				return nil
			}
		}
		report, built = build(ctx)
		if built != nil && !errors.Is(built, apperrors.ErrIntegrity) {
			return built
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, kind, err)
	}
	if built != nil {
		// The report is still returned so the discrepancy can be inspected.
		s.LogError(ctx, built, "Statement failed an integrity check",
			slog.String("statement", kind),
			slog.String("organization_id", actor.OrganizationID),
			slog.String("window", window))
		s.metrics.OperationError(kind, built)
		return &report, built
	}

	if !hit && s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			s.LogWarn(ctx, err, "Statement cache write failed", slog.String("key", key))
		}
	}
	s.metrics.StatementGenerated(kind, hit, time.Since(started))
	s.LogDebug(ctx, "Statement generated",
		slog.String("statement", kind),
		slog.String("window", window),
		slog.Bool("cached", hit))
	return &report, nil
}

func validateRange(start, end time.Time) error {
	if end.Before(start) {
		return apperrors.NewValidationError("end date %s is before start date %s",
			end.Format(domain.DateLayout), start.Format(domain.DateLayout))
	}
	return nil
}

func formatRange(from, to *time.Time) string {
	f, t := "inception", "now"
	if from != nil {
		f = from.Format(domain.DateLayout)
	}
	if to != nil {
		t = to.Format(domain.DateLayout)
	}
	return f + ".." + t
}
