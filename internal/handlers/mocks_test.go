package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, actor, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListChildren(ctx context.Context, actor domain.Actor, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, actor, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccountTags(ctx context.Context, actor domain.Actor, accountID string, tags domain.AccountTags) (*domain.Account, error) {
	args := m.Called(ctx, actor, accountID, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	args := m.Called(ctx, actor, accountID)
	return args.Error(0)
}

func (m *MockAccountService) GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*dto.AccountBalanceResponse, error) {
	args := m.Called(ctx, actor, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccountBalanceResponse), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, journalEntryID))
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, actor domain.Actor, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, actor, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, req))
}

func (m *MockJournalService) SubmitJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, *domain.WorkflowInstance, error) {
	args := m.Called(ctx, actor, journalEntryID)
	var instance *domain.WorkflowInstance
	if args.Get(1) != nil {
		instance = args.Get(1).(*domain.WorkflowInstance)
	}
	if args.Get(0) == nil {
		return nil, instance, args.Error(2)
	}
	return args.Get(0).(*domain.JournalEntry), instance, args.Error(2)
}

func (m *MockJournalService) ApproveJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, journalEntryID))
}

func (m *MockJournalService) RejectJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string, reason string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, journalEntryID, reason))
}

func (m *MockJournalService) PostJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, journalEntryID))
}

func (m *MockJournalService) ReverseJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, actor, journalEntryID))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.FiscalPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) AssertOpen(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, organizationID, date))
}

func (m *MockPeriodService) CreatePeriod(ctx context.Context, actor domain.Actor, req dto.CreatePeriodRequest) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, actor, req))
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, actor domain.Actor) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, actor domain.Actor, periodID string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, actor, periodID))
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, actor domain.Actor, periodID string, reason string) (*domain.FiscalPeriod, error) {
	return m.period(m.Called(ctx, actor, periodID, reason))
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) instance(args mock.Arguments) (*domain.WorkflowInstance, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowService) CreateTemplate(ctx context.Context, actor domain.Actor, req dto.CreateWorkflowTemplateRequest) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowService) GetTemplate(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, actor, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowService) Submit(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string, amount domain.Amount) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, resourceType, resourceID, amount))
}

func (m *MockWorkflowService) Approve(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, instanceID, stepOrder, comment))
}

func (m *MockWorkflowService) Reject(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, instanceID, stepOrder, comment))
}

func (m *MockWorkflowService) Delegate(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, delegateID string, comment *string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, instanceID, stepOrder, delegateID, comment))
}

func (m *MockWorkflowService) GetInstance(ctx context.Context, actor domain.Actor, instanceID string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, instanceID))
}

func (m *MockWorkflowService) GetInstanceByResource(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, actor, resourceType, resourceID))
}

func (m *MockWorkflowService) RegisterCompletionHook(resourceType domain.ResourceType, hook portssvc.WorkflowCompletionHook) {
	m.Called(resourceType, hook)
}

var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

// --- Mock BulkApprovalService ---
type MockBulkService struct {
	mock.Mock
}

func (m *MockBulkService) BulkApprove(ctx context.Context, actor domain.Actor, instanceIDs []string, comment *string) []domain.BulkApprovalResult {
	args := m.Called(ctx, actor, instanceIDs, comment)
	return args.Get(0).([]domain.BulkApprovalResult)
}

var _ portssvc.BulkApprovalSvc = (*MockBulkService)(nil)

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GetTrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, actor, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockStatementService) GenerateIncomeStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, actor, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockStatementService) GenerateBalanceSheet(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, actor, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockStatementService) GenerateCashFlowStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, actor, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}

var _ portssvc.StatementSvc = (*MockStatementService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, actor domain.Actor, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) GetBudget(ctx context.Context, actor domain.Actor, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, actor, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) GetBudgetVariance(ctx context.Context, actor domain.Actor, budgetID string) (*domain.BudgetVariance, error) {
	args := m.Called(ctx, actor, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetVariance), args.Error(1)
}

var _ portssvc.BudgetSvc = (*MockBudgetService)(nil)
