package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(pool DBPool) *reportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// dateArg turns an optional bound into a DATE parameter; nil leaves the bound open.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return domain.DateOnly(*t)
}

// GetAccountActivity sums posted lines per account inside the optional date window.
func (r *reportingRepository) GetAccountActivity(ctx context.Context, organizationID string, from, to *time.Time) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_id, a.organization_id, a.code, a.name, a.classification, a.normal_balance, a.parent_account_id,
			a.description, a.is_active, a.is_cash, a.is_fixed_asset, a.is_long_term_liability, a.is_non_cash_expense,
			a.is_non_cash_contra, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		JOIN gl_accounts a ON a.account_id = l.gl_account_id
		WHERE e.organization_id = $1
			AND e.status = 'POSTED'
			AND ($2::date IS NULL OR e.entry_date >= $2::date)
			AND ($3::date IS NULL OR e.entry_date <= $3::date)
		GROUP BY a.account_id
		ORDER BY a.code;`

	rows, err := r.q(ctx).Query(ctx, query, organizationID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, mapError(err, "query account activity")
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var m models.Account
		var debit, credit decimal.Decimal
		if err := rows.Scan(
			&m.AccountID,
			&m.OrganizationID,
			&m.Code,
			&m.Name,
			&m.Classification,
			&m.NormalBalance,
			&m.ParentAccountID,
			&m.Description,
			&m.IsActive,
			&m.IsCash,
			&m.IsFixedAsset,
			&m.IsLongTermLiability,
			&m.IsNonCashExpense,
			&m.IsNonCashContra,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&debit,
			&credit,
		); err != nil {
			return nil, mapError(err, "scan account activity")
		}
		result = append(result, domain.AccountActivity{
			Account: mapping.ToDomainAccount(m),
			Debit:   mapping.ToAmount(debit),
			Credit:  mapping.ToAmount(credit),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate account activity")
	}
	return result, nil
}

// GetRollupActivity sums posted lines of the account subtree rooted at accountID.
func (r *reportingRepository) GetRollupActivity(ctx context.Context, accountID string, asOf *time.Time) (domain.Amount, domain.Amount, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT account_id FROM gl_accounts WHERE account_id = $1
			UNION ALL
			SELECT c.account_id FROM gl_accounts c JOIN subtree s ON c.parent_account_id = s.account_id
		)
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.gl_account_id IN (SELECT account_id FROM subtree)
			AND e.status = 'POSTED'
			AND ($2::date IS NULL OR e.entry_date <= $2::date);`

	var debit, credit decimal.Decimal
	if err := r.q(ctx).QueryRow(ctx, query, accountID, dateArg(asOf)).Scan(&debit, &credit); err != nil {
		return 0, 0, mapError(err, "query rollup activity for "+accountID)
	}
	return mapping.ToAmount(debit), mapping.ToAmount(credit), nil
}

// GetLedgerVersion returns 0 for an organization that never posted.
func (r *reportingRepository) GetLedgerVersion(ctx context.Context, organizationID string) (int64, error) {
	var version int64
	err := r.q(ctx).QueryRow(ctx, `SELECT version FROM ledger_versions WHERE organization_id = $1;`, organizationID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, mapError(err, "get ledger version")
	}
	return version, nil
}
