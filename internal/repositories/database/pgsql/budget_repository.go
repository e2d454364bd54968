package pgsql

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
)

const (
	budgetColumns   = `budget_id, organization_id, department_id, fiscal_year, period_type, total_amount, status, created_at, created_by, last_updated_at, last_updated_by`
	budgetLineItems = `line_item_id, budget_id, line_no, gl_account_id, q1_amount, q2_amount, q3_amount, q4_amount, actual_amount`
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool DBPool) *PgxBudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	q := r.q(ctx)

	query := `INSERT INTO budgets (` + budgetColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	if _, err := q.Exec(ctx, query,
		m.BudgetID, m.OrganizationID, m.DepartmentID, m.FiscalYear, m.PeriodType, m.TotalAmount, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return mapError(err, "save budget "+m.BudgetID)
	}

	lineQuery := `INSERT INTO budget_line_items (` + budgetLineItems + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for i, line := range budget.Lines {
		ml := mapping.ToModelBudgetLineItem(m.BudgetID, line, i+1)
		if _, err := q.Exec(ctx, lineQuery,
			ml.LineItemID, ml.BudgetID, ml.LineNo, ml.GLAccountID,
			ml.Q1Amount, ml.Q2Amount, ml.Q3Amount, ml.Q4Amount, ml.ActualAmount,
		); err != nil {
			return mapError(err, "save budget line item")
		}
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	var m models.Budget
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`
	if err := r.q(ctx).QueryRow(ctx, query, budgetID).Scan(
		&m.BudgetID, &m.OrganizationID, &m.DepartmentID, &m.FiscalYear, &m.PeriodType, &m.TotalAmount, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	); err != nil {
		return nil, mapError(err, "find budget "+budgetID)
	}

	rows, err := r.q(ctx).Query(ctx, `SELECT `+budgetLineItems+` FROM budget_line_items WHERE budget_id = $1 ORDER BY line_no;`, budgetID)
	if err != nil {
		return nil, mapError(err, "query budget line items")
	}
	defer rows.Close()

	var lines []models.BudgetLineItem
	for rows.Next() {
		var l models.BudgetLineItem
		if err := rows.Scan(
			&l.LineItemID, &l.BudgetID, &l.LineNo, &l.GLAccountID,
			&l.Q1Amount, &l.Q2Amount, &l.Q3Amount, &l.Q4Amount, &l.ActualAmount,
		); err != nil {
			return nil, mapError(err, "scan budget line item")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate budget line items")
	}

	b := mapping.ToDomainBudget(m, lines)
	return &b, nil
}
