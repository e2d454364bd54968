package services

import (
	"github.com/panjf2000/ants/v2"

	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache may be nil to disable statement caching.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, pool *ants.Pool, cache portssvc.StatementCache, options ...Option) *portssvc.ServiceContainer {
	policy := PolicyFromConfig(cfg)
	container := &portssvc.ServiceContainer{}

	// The period lock and workflow engine come first since the ledger depends on both.
	container.Period = NewPeriodService(repos.TxManager, repos.PeriodRepo, policy, options...)
	container.Workflow = NewWorkflowService(repos.TxManager, repos.WorkflowRepo, options...)

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, repos.ReportingRepo, repos.JournalRepo, policy, options...)
	container.Journal = NewJournalService(
		repos.TxManager,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.WorkflowRepo,
		container.Workflow,
		container.Period,
		policy,
		options...,
	)
	container.Bulk = NewBulkApprovalService(container.Workflow, pool, options...)
	container.Statements = NewStatementService(repos.TxManager, repos.ReportingRepo, cache, options...)
	container.Budget = NewBudgetService(repos.TxManager, repos.BudgetRepo, repos.AccountRepo, options...)

	return container
}
