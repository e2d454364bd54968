package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/utils/accounting"
)

const defaultJournalPageSize = 20

// journalService provides the ledger engine: creation, lifecycle and reversal of journal entries.
type journalService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	journalRepo  portsrepo.JournalRepositoryFacade
	workflowRepo portsrepo.WorkflowReader
	hierarchy    *AccountHierarchy
	workflows    portssvc.WorkflowEngineSvc
	periods      portssvc.PeriodLockSvc
	policy       LedgerPolicy
}

// NewJournalService creates a new JournalService and registers it as the
// completion hook of journal entry workflows.
func NewJournalService(
	txManager portsrepo.TransactionManager,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	workflowRepo portsrepo.WorkflowReader,
	workflows portssvc.WorkflowEngineSvc,
	periods portssvc.PeriodLockSvc,
	policy LedgerPolicy,
	options ...Option,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		BaseService:  newBaseService(options),
		txManager:    txManager,
		journalRepo:  journalRepo,
		workflowRepo: workflowRepo,
		hierarchy:    NewAccountHierarchy(accountRepo),
		workflows:    workflows,
		periods:      periods,
		policy:       policy,
	}
	workflows.RegisterCompletionHook(domain.ResourceJournalEntry, svc.onWorkflowCompleted)
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CreateJournalEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	const op = "create_journal_entry"
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("%s", err.Error()))
	}
	if req.Description == "" {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("description is required"))
	}

	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, 0, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, l := range req.Lines {
		debit, err := domain.AmountFromDecimal(l.Debit)
		if err != nil {
			return nil, s.fail(ctx, op, apperrors.NewValidationError("line %d: %s", i+1, err.Error()))
		}
		credit, err := domain.AmountFromDecimal(l.Credit)
		if err != nil {
			return nil, s.fail(ctx, op, apperrors.NewValidationError("line %d: %s", i+1, err.Error()))
		}
		lines = append(lines, domain.JournalLine{
			LineID:         uuid.NewString(),
			JournalEntryID: entryID,
			GLAccountID:    l.AccountID,
			CostCenterID:   l.CostCenterID,
			Description:    l.Description,
			Debit:          debit,
			Credit:         credit,
		})
		accountIDs = append(accountIDs, l.AccountID)
	}
	totals, err := accounting.ValidateDoubleEntry(lines)
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("total_debit", totals.TotalDebit.String()), slog.String("total_credit", totals.TotalCredit.String()))
	}

	now := s.Now()
	entry := domain.JournalEntry{
		JournalEntryID: entryID,
		OrganizationID: actor.OrganizationID,
		Description:    req.Description,
		Date:           date,
		Status:         domain.StatusDraft,
		Version:        1,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.hierarchy.ResolvePostable(ctx, actor.OrganizationID, accountIDs, s.policy.AllowParentPosting); err != nil {
			return err
		}
		seq, err := s.journalRepo.NextEntrySequence(ctx, actor.OrganizationID, now.Year())
		if err != nil {
			return err
		}
		entry.EntryNumber = accounting.EntryNumber(now.Year(), seq)
		return s.journalRepo.SaveJournalEntry(ctx, entry)
	})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.metrics.JournalTransition(string(domain.StatusDraft))
	s.LogInfo(ctx, "Journal entry created",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("total", totals.TotalDebit.String()))
	s.audit(ctx, actor, domain.AuditJournalCreated, "journal_entry", entry.JournalEntryID, map[string]any{
		"entryNumber": entry.EntryNumber,
		"total":       totals.TotalDebit.String(),
	})
	return &entry, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		return nil, err
	}
	if err := sameOrganization(actor, entry.OrganizationID, "journal entry", journalEntryID); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, actor domain.Actor, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	query := domain.ListJournalEntriesParams{
		OrganizationID: actor.OrganizationID,
		Limit:          params.Limit,
	}
	if query.Limit <= 0 {
		query.Limit = defaultJournalPageSize
	}
	if params.Status != "" {
		status := domain.JournalStatus(params.Status)
		if !status.IsValid() {
			return nil, nil, apperrors.NewValidationError("invalid status %q", params.Status)
		}
		query.Status = &status
	}
	if params.NextToken != "" {
		query.NextToken = &params.NextToken
	}
	return s.journalRepo.ListJournalEntries(ctx, query)
}

func (s *journalService) SubmitJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, *domain.WorkflowInstance, error) {
	const op = "submit_journal_entry"
	var (
		entry    *domain.JournalEntry
		instance *domain.WorkflowInstance
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.GetJournalEntry(ctx, actor, journalEntryID)
		if err != nil {
			return err
		}
		if err := s.transition(ctx, entry, domain.TransitionSubmit, actor.UserID, nil); err != nil {
			return err
		}
		instance, err = s.workflows.Submit(ctx, actor, domain.ResourceJournalEntry, entry.JournalEntryID, entry.Totals().TotalDebit)
		if errors.Is(err, apperrors.ErrNotFound) {
			// No template: the entry waits for a direct approval.
			instance = nil
			return nil
		}
		if err != nil {
			return err
		}
		if instance.IsTerminal() {
			// Completion hooks already moved the entry on.
			entry, err = s.journalRepo.FindJournalEntryByID(ctx, journalEntryID)
		}
		return err
	})
	if err != nil {
		return nil, nil, s.fail(ctx, op, err, slog.String("journal_entry_id", journalEntryID))
	}

	attrs := []any{slog.String("journal_entry_id", journalEntryID), slog.String("status", string(entry.Status))}
	metadata := map[string]any{"status": string(entry.Status)}
	if instance != nil {
		attrs = append(attrs, slog.String("workflow_instance_id", instance.InstanceID))
		metadata["workflowInstanceID"] = instance.InstanceID
	}
	s.LogInfo(ctx, "Journal entry submitted", attrs...)
	s.audit(ctx, actor, domain.AuditJournalSubmitted, "journal_entry", journalEntryID, metadata)
	return entry, instance, nil
}

func (s *journalService) ApproveJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	const op = "approve_journal_entry"
	if len(s.policy.DirectApproveRoles) > 0 && !containsRole(s.policy.DirectApproveRoles, actor.Role) {
		return nil, s.fail(ctx, op, apperrors.NewForbiddenError("role %q cannot approve journal entries directly", actor.Role))
	}
	var entry *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.GetJournalEntry(ctx, actor, journalEntryID)
		if err != nil {
			return err
		}
		if err := s.assertNoActiveWorkflow(ctx, journalEntryID); err != nil {
			return err
		}
		approver := actor.UserID
		return s.transition(ctx, entry, domain.TransitionApprove, actor.UserID, func(u *portsrepo.JournalStatusUpdate) {
			u.ApprovedBy = &approver
		})
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("journal_entry_id", journalEntryID))
	}
	s.LogInfo(ctx, "Journal entry approved", slog.String("journal_entry_id", journalEntryID))
	s.audit(ctx, actor, domain.AuditJournalApproved, "journal_entry", journalEntryID, nil)
	return entry, nil
}

func (s *journalService) RejectJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string, reason string) (*domain.JournalEntry, error) {
	const op = "reject_journal_entry"
	if len(s.policy.DirectApproveRoles) > 0 && !containsRole(s.policy.DirectApproveRoles, actor.Role) {
		return nil, s.fail(ctx, op, apperrors.NewForbiddenError("role %q cannot reject journal entries directly", actor.Role))
	}
	var entry *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.GetJournalEntry(ctx, actor, journalEntryID)
		if err != nil {
			return err
		}
		if err := s.assertNoActiveWorkflow(ctx, journalEntryID); err != nil {
			return err
		}
		return s.transition(ctx, entry, domain.TransitionReject, actor.UserID, nil)
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("journal_entry_id", journalEntryID))
	}
	s.LogInfo(ctx, "Journal entry rejected", slog.String("journal_entry_id", journalEntryID))
	s.audit(ctx, actor, domain.AuditJournalRejected, "journal_entry", journalEntryID, map[string]any{"reason": reason})
	return entry, nil
}

// assertNoActiveWorkflow keeps direct decisions from bypassing a running approval workflow.
func (s *journalService) assertNoActiveWorkflow(ctx context.Context, journalEntryID string) error {
	instance, err := s.workflowRepo.FindInstanceByResource(ctx, domain.ResourceJournalEntry, journalEntryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !instance.IsTerminal() {
		return apperrors.NewStateConflictError("journal entry %s is under workflow approval (instance %s)", journalEntryID, instance.InstanceID)
	}
	return nil
}

func (s *journalService) PostJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	const op = "post_journal_entry"
	var entry *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.GetJournalEntry(ctx, actor, journalEntryID)
		if err != nil {
			return err
		}
		if _, err := entry.Status.Apply(domain.TransitionPost); err != nil {
			return err
		}
		period, err := s.periods.AssertOpen(ctx, entry.OrganizationID, entry.Date)
		if err != nil {
			return err
		}
		postedAt := s.Now()
		periodID := period.PeriodID
		if err := s.transition(ctx, entry, domain.TransitionPost, actor.UserID, func(u *portsrepo.JournalStatusUpdate) {
			u.PostedAt = &postedAt
			u.PeriodID = &periodID
		}); err != nil {
			return err
		}
		_, err = s.journalRepo.BumpLedgerVersion(ctx, entry.OrganizationID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("journal_entry_id", journalEntryID))
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("period_id", *entry.PeriodID))
	s.audit(ctx, actor, domain.AuditJournalPosted, "journal_entry", journalEntryID, map[string]any{
		"entryNumber": entry.EntryNumber,
		"periodID":    *entry.PeriodID,
	})
	return entry, nil
}

// ReverseJournalEntry skips approval: the reversing entry is created POSTED,
// dated today, in the period open today.
func (s *journalService) ReverseJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	const op = "reverse_journal_entry"
	var reversal domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		original, err := s.GetJournalEntry(ctx, actor, journalEntryID)
		if err != nil {
			return err
		}
		if original.Status != domain.StatusPosted {
			return apperrors.NewStateConflictError("only posted entries can be reversed; entry %s is %s", original.EntryNumber, original.Status)
		}
		existing, err := s.journalRepo.FindReversalOf(ctx, journalEntryID)
		switch {
		case err == nil:
			return apperrors.NewStateConflictError("entry %s was already reversed by %s", original.EntryNumber, existing.EntryNumber)
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		now := s.Now()
		today := domain.DateOnly(now)
		period, err := s.periods.AssertOpen(ctx, original.OrganizationID, today)
		if err != nil {
			return err
		}
		seq, err := s.journalRepo.NextEntrySequence(ctx, original.OrganizationID, now.Year())
		if err != nil {
			return err
		}

		reversalID := uuid.NewString()
		lines := accounting.ReversalLines(original.Lines)
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].JournalEntryID = reversalID
		}
		approver := actor.UserID
		periodID := period.PeriodID
		originalID := original.JournalEntryID
		reversal = domain.JournalEntry{
			JournalEntryID: reversalID,
			OrganizationID: original.OrganizationID,
			EntryNumber:    accounting.EntryNumber(now.Year(), seq),
			Description:    "Reversal of " + original.EntryNumber + ": " + original.Description,
			Date:           today,
			Status:         domain.StatusPosted,
			ApprovedBy:     &approver,
			PostedAt:       &now,
			PeriodID:       &periodID,
			ReversalOfID:   &originalID,
			Version:        1,
			Lines:          lines,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		if err := s.journalRepo.SaveJournalEntry(ctx, reversal); err != nil {
			return err
		}
		_, err = s.journalRepo.BumpLedgerVersion(ctx, original.OrganizationID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, err, slog.String("journal_entry_id", journalEntryID))
	}

	s.metrics.JournalTransition(string(domain.StatusPosted))
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("reversal_id", reversal.JournalEntryID),
		slog.String("entry_number", reversal.EntryNumber))
	s.audit(ctx, actor, domain.AuditJournalReversed, "journal_entry", journalEntryID, map[string]any{
		"reversalID":  reversal.JournalEntryID,
		"entryNumber": reversal.EntryNumber,
	})
	return &reversal, nil
}

// onWorkflowCompleted moves a journal entry on when its approval workflow finishes.
// It runs inside the workflow's transaction.
func (s *journalService) onWorkflowCompleted(ctx context.Context, instance *domain.WorkflowInstance) error {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, instance.ResourceID)
	if err != nil {
		return err
	}
	switch instance.Status {
	case domain.InstanceApproved:
		approver := instance.FinalApprover()
		return s.transition(ctx, entry, domain.TransitionApprove, approver, func(u *portsrepo.JournalStatusUpdate) {
			u.ApprovedBy = &approver
		})
	case domain.InstanceRejected:
		return s.transition(ctx, entry, domain.TransitionReject, domain.SystemActorID, nil)
	}
	return nil
}

// transition applies t to entry through an optimistic update and mirrors the
// stored change onto entry.
func (s *journalService) transition(ctx context.Context, entry *domain.JournalEntry, t domain.JournalTransition, actorID string, mutate func(*portsrepo.JournalStatusUpdate)) error {
	to, err := entry.Status.Apply(t)
	if err != nil {
		return err
	}
	update := portsrepo.JournalStatusUpdate{
		JournalEntryID:  entry.JournalEntryID,
		From:            domain.SourceStatuses(t),
		To:              to,
		ExpectedVersion: entry.Version,
		UpdatedBy:       actorID,
		UpdatedAt:       s.Now(),
	}
	if mutate != nil {
		mutate(&update)
	}
	if err := s.journalRepo.TransitionJournalEntry(ctx, update); err != nil {
		return err
	}

	entry.Status = to
	entry.Version++
	entry.LastUpdatedBy = update.UpdatedBy
	entry.LastUpdatedAt = update.UpdatedAt
	if update.ApprovedBy != nil {
		entry.ApprovedBy = update.ApprovedBy
	}
	if update.PostedAt != nil {
		entry.PostedAt = update.PostedAt
	}
	if update.PeriodID != nil {
		entry.PeriodID = update.PeriodID
	}
	s.metrics.JournalTransition(string(to))
	return nil
}
