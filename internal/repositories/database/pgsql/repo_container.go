package pgsql

import (
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository over one pool. pool is
// usually a *pgxpool.Pool.
func NewRepositoryProvider(pool DBPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     newPgxTxManager(pool),
		AccountRepo:   newPgxAccountRepository(pool),
		JournalRepo:   newPgxJournalRepository(pool),
		PeriodRepo:    newPgxPeriodRepository(pool),
		WorkflowRepo:  newPgxWorkflowRepository(pool),
		ReportingRepo: newReportingRepository(pool),
		BudgetRepo:    newPgxBudgetRepository(pool),
	}
}
