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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	versions      portsrepo.LedgerVersionWriter
	hierarchy     *AccountHierarchy
	policy        LedgerPolicy
}

// NewAccountService creates a new account service. Tag and status changes bump
// the ledger version through versions, since cash flow sectioning reads them.
func NewAccountService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository,
	versions portsrepo.LedgerVersionWriter, policy LedgerPolicy, options ...Option) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:   newBaseService(options),
		txManager:     txManager,
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		versions:      versions,
		hierarchy:     NewAccountHierarchy(accountRepo),
		policy:        policy,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	const op = "create_account"
	classification := domain.Classification(req.Classification)
	if !classification.IsValid() {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("invalid classification %q", req.Classification))
	}
	if req.Code == "" || req.Name == "" {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("code and name are required"))
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, actor.OrganizationID, req.Code); err == nil {
		return nil, s.fail(ctx, op, apperrors.NewDuplicateError("account code", req.Code))
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.fail(ctx, op, err, slog.String("code", req.Code))
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				err = apperrors.NewValidationError("parent account %s does not exist", *req.ParentAccountID)
			}
			return nil, s.fail(ctx, op, err)
		}
		if parent.OrganizationID != actor.OrganizationID {
			return nil, s.fail(ctx, op, apperrors.NewValidationError("parent account %s does not exist", *req.ParentAccountID))
		}
		if parent.Classification != classification {
			return nil, s.fail(ctx, op, apperrors.NewValidationError("parent account %s is %s, child must have the same classification", parent.Code, parent.Classification))
		}
		if !parent.IsActive {
			return nil, s.fail(ctx, op, apperrors.NewValidationError("parent account %s is inactive", parent.Code))
		}
	}

	var tags domain.AccountTags
	switch {
	case req.Tags != nil:
		if err := validateTags(classification, *req.Tags); err != nil {
			return nil, s.fail(ctx, op, err)
		}
		tags = *req.Tags
	case s.policy.DeriveTagsFromCode:
		tags = s.policy.CodeConvention.DeriveTags(req.Code, classification)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		OrganizationID:  actor.OrganizationID,
		Code:            req.Code,
		Name:            req.Name,
		Classification:  classification,
		NormalBalance:   classification.NormalBalance(),
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		Tags:            tags,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, s.fail(ctx, op, err, slog.String("code", req.Code))
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	s.audit(ctx, actor, domain.AuditAccountCreated, "gl_account", account.AccountID, map[string]any{
		"code":           account.Code,
		"classification": string(account.Classification),
	})
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	account, err := s.hierarchy.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := sameOrganization(actor, account.OrganizationID, "account", accountID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, actor.OrganizationID)
	if err != nil {
		return nil, s.fail(ctx, "list_accounts", err)
	}
	return accounts, nil
}

func (s *accountService) ListChildren(ctx context.Context, actor domain.Actor, accountID string) ([]domain.Account, error) {
	if _, err := s.GetAccountByID(ctx, actor, accountID); err != nil {
		return nil, err
	}
	return s.hierarchy.Children(ctx, accountID)
}

func (s *accountService) UpdateAccountTags(ctx context.Context, actor domain.Actor, accountID string, tags domain.AccountTags) (*domain.Account, error) {
	const op = "update_account_tags"
	account, err := s.GetAccountByID(ctx, actor, accountID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := validateTags(account.Classification, tags); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	now := s.Now()
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.UpdateAccountTags(ctx, accountID, tags, actor.UserID, now); err != nil {
			return err
		}
		_, err := s.versions.BumpLedgerVersion(ctx, account.OrganizationID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("account_id", accountID))
	}
	account.Tags = tags
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor.UserID
	s.audit(ctx, actor, domain.AuditAccountUpdated, "gl_account", accountID, map[string]any{"tags": tags})
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	const op = "deactivate_account"
	account, err := s.GetAccountByID(ctx, actor, accountID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !account.IsActive {
		return s.fail(ctx, op, apperrors.NewStateConflictError("account %s is already inactive", account.Code))
	}
	children, err := s.hierarchy.Children(ctx, accountID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	for _, child := range children {
		if child.IsActive {
			return s.fail(ctx, op, apperrors.NewValidationError("account %s has active child account %s", account.Code, child.Code))
		}
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.DeactivateAccount(ctx, accountID, actor.UserID, s.Now()); err != nil {
			return err
		}
		_, err := s.versions.BumpLedgerVersion(ctx, account.OrganizationID)
		return err
	})
	if err != nil {
		return s.fail(ctx, op, err, slog.String("account_id", accountID))
	}
	s.audit(ctx, actor, domain.AuditAccountUpdated, "gl_account", accountID, map[string]any{"isActive": false})
	return nil
}

func (s *accountService) GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*dto.AccountBalanceResponse, error) {
	const op = "get_account_balance"
	account, err := s.GetAccountByID(ctx, actor, accountID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	leaf, err := s.hierarchy.IsLeaf(ctx, accountID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	debit, credit, err := s.reportingRepo.GetRollupActivity(ctx, accountID, asOf)
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("account_id", accountID))
	}

	resp := &dto.AccountBalanceResponse{
		AccountID:     account.AccountID,
		Code:          account.Code,
		NormalBalance: string(account.NormalBalance),
		Balance:       account.NormalBalance.Signed(debit, credit).Decimal(),
		IsRollup:      !leaf,
	}
	if asOf != nil {
		d := asOf.Format(domain.DateLayout)
		resp.AsOf = &d
	}
	return resp, nil
}

// validateTags rejects tag combinations that cannot apply to the classification.
func validateTags(classification domain.Classification, tags domain.AccountTags) error {
	if classification != domain.Asset && (tags.IsCash || tags.IsFixedAsset || tags.IsNonCashContra) {
		return apperrors.NewValidationError("cash, fixed asset and contra tags apply to asset accounts only")
	}
	if classification != domain.Liability && tags.IsLongTermLiability {
		return apperrors.NewValidationError("long-term liability tag applies to liability accounts only")
	}
	if classification != domain.Expense && tags.IsNonCashExpense {
		return apperrors.NewValidationError("non-cash expense tag applies to expense accounts only")
	}
	if tags.IsCash && (tags.IsFixedAsset || tags.IsNonCashContra) {
		return apperrors.NewValidationError("a cash account cannot be a fixed asset or contra account")
	}
	return nil
}
