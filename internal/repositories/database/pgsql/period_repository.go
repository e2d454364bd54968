package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
)

const periodColumns = `period_id, organization_id, name, start_date, end_date, is_closed, closed_by, closed_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool DBPool) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.OrganizationID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPeriodRepository) collect(rows pgx.Rows) ([]domain.FiscalPeriod, error) {
	defer rows.Close()
	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, mapError(err, "scan fiscal period")
		}
		periods = append(periods, mapping.ToDomainFiscalPeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate fiscal periods")
	}
	return periods, nil
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.q(ctx).Exec(ctx, query,
		m.PeriodID,
		m.OrganizationID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.ClosedBy,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save fiscal period "+m.PeriodID)
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE period_id = $1;`
	m, err := scanPeriod(r.q(ctx).QueryRow(ctx, query, periodID))
	if err != nil {
		return nil, mapError(err, "find fiscal period "+periodID)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// FindPeriodForDate takes a FOR SHARE lock only inside a transaction; outside
// one the lock would be released immediately.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, organizationID string, date time.Time, lockForShare bool) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE organization_id = $1 AND start_date <= $2 AND end_date >= $2`
	if _, inTx := txFromContext(ctx); lockForShare && inTx {
		query += ` FOR SHARE`
	}
	query += `;`

	m, err := scanPeriod(r.q(ctx).QueryRow(ctx, query, organizationID, domain.DateOnly(date)))
	if err != nil {
		return nil, mapError(err, "find fiscal period for "+domain.DateOnly(date).Format(domain.DateLayout))
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE organization_id = $1 ORDER BY start_date;`
	rows, err := r.q(ctx).Query(ctx, query, organizationID)
	if err != nil {
		return nil, mapError(err, "list fiscal periods")
	}
	return r.collect(rows)
}

func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, organizationID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE organization_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;`
	rows, err := r.q(ctx).Query(ctx, query, organizationID, domain.DateOnly(start), domain.DateOnly(end))
	if err != nil {
		return nil, mapError(err, "find overlapping fiscal periods")
	}
	return r.collect(rows)
}

// SetPeriodClosed flips the closed flag. Closing waits for FOR SHARE holders, so
// a close never interleaves with an in-flight posting into the same period.
func (r *PgxPeriodRepository) SetPeriodClosed(ctx context.Context, periodID string, closed bool, actorID string, at time.Time) error {
	var query string
	if closed {
		query = `UPDATE fiscal_periods
			SET is_closed = TRUE, closed_by = $2, closed_at = $3, last_updated_by = $2, last_updated_at = $3
			WHERE period_id = $1 AND is_closed = FALSE;`
	} else {
		query = `UPDATE fiscal_periods
			SET is_closed = FALSE, closed_by = NULL, closed_at = NULL, last_updated_by = $2, last_updated_at = $3
			WHERE period_id = $1 AND is_closed = TRUE;`
	}
	tag, err := r.q(ctx).Exec(ctx, query, periodID, actorID, at)
	if err != nil {
		return mapError(err, "set fiscal period closed "+periodID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindPeriodByID(ctx, periodID); err != nil {
			return err
		}
		if closed {
			return apperrors.NewStateConflictError("fiscal period %s is already closed", periodID)
		}
		return apperrors.NewStateConflictError("fiscal period %s is already open", periodID)
	}
	return nil
}
