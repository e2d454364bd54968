package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
)

const accountColumns = `account_id, organization_id, code, name, classification, normal_balance, parent_account_id,
	description, is_active, is_cash, is_fixed_asset, is_long_term_liability, is_non_cash_expense, is_non_cash_contra,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool DBPool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
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
	)
	return m, err
}

func collectAccounts(rows pgx.Rows, op string) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, op)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO gl_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`

	_, err := r.q(ctx).Exec(ctx, query,
		m.AccountID,
		m.OrganizationID,
		m.Code,
		m.Name,
		m.Classification,
		m.NormalBalance,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.IsCash,
		m.IsFixedAsset,
		m.IsLongTermLiability,
		m.IsNonCashExpense,
		m.IsNonCashContra,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		mapped := mapError(err, "save account "+m.AccountID)
		if errors.Is(mapped, apperrors.ErrDuplicate) {
			return apperrors.NewDuplicateError("account with code", m.Code)
		}
		return mapped
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = $1;`
	m, err := scanAccount(r.q(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, "find account "+accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByCode retrieves an account by its code within an organization.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE organization_id = $1 AND code = $2;`
	m, err := scanAccount(r.q(ctx).QueryRow(ctx, query, organizationID, code))
	if err != nil {
		return nil, mapError(err, "find account by code "+code)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = ANY($1);`
	rows, err := r.q(ctx).Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "query accounts by IDs")
	}
	accounts, err := collectAccounts(rows, "scan accounts by IDs")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
	}
	return byID, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE organization_id = $1 ORDER BY code;`
	rows, err := r.q(ctx).Query(ctx, query, organizationID)
	if err != nil {
		return nil, mapError(err, "list accounts")
	}
	return collectAccounts(rows, "scan accounts")
}

func (r *PgxAccountRepository) ListChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE parent_account_id = $1 ORDER BY code;`
	rows, err := r.q(ctx).Query(ctx, query, accountID)
	if err != nil {
		return nil, mapError(err, "list child accounts")
	}
	return collectAccounts(rows, "scan child accounts")
}

// CountChildren returns the number of direct children per account. Accounts without children map to 0.
func (r *PgxAccountRepository) CountChildren(ctx context.Context, accountIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(accountIDs))
	if len(accountIDs) == 0 {
		return counts, nil
	}
	for _, id := range accountIDs {
		counts[id] = 0
	}

	query := `SELECT parent_account_id, COUNT(*) FROM gl_accounts WHERE parent_account_id = ANY($1) GROUP BY parent_account_id;`
	rows, err := r.q(ctx).Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "count child accounts")
	}
	defer rows.Close()
	for rows.Next() {
		var parentID string
		var n int64
		if err := rows.Scan(&parentID, &n); err != nil {
			return nil, mapError(err, "scan child account count")
		}
		counts[parentID] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate child account counts")
	}
	return counts, nil
}

func (r *PgxAccountRepository) UpdateAccountTags(ctx context.Context, accountID string, tags domain.AccountTags, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE gl_accounts
		SET is_cash = $2, is_fixed_asset = $3, is_long_term_liability = $4, is_non_cash_expense = $5, is_non_cash_contra = $6,
			last_updated_by = $7, last_updated_at = $8
		WHERE account_id = $1;`
	tag, err := r.q(ctx).Exec(ctx, query, accountID,
		tags.IsCash, tags.IsFixedAsset, tags.IsLongTermLiability, tags.IsNonCashExpense, tags.IsNonCashContra,
		updatedBy, updatedAt)
	if err != nil {
		return mapError(err, "update account tags "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", accountID)
	}
	return nil
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedBy string, updatedAt time.Time) error {
	query := `UPDATE gl_accounts SET is_active = FALSE, last_updated_by = $2, last_updated_at = $3 WHERE account_id = $1;`
	tag, err := r.q(ctx).Exec(ctx, query, accountID, updatedBy, updatedAt)
	if err != nil {
		return mapError(err, "deactivate account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", accountID)
	}
	return nil
}
