package pgsql

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
	"github.com/SscSPs/erp_finance_core/internal/utils/pagination"
)

const journalEntryColumns = `journal_entry_id, organization_id, entry_number, description, entry_date, status,
	approved_by, posted_at, period_id, reversal_of_id, version, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_entry_id, line_no, gl_account_id, cost_center_id, description, debit, credit`

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool DBPool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.OrganizationID,
		&m.EntryNumber,
		&m.Description,
		&m.EntryDate,
		&m.Status,
		&m.ApprovedBy,
		&m.PostedAt,
		&m.PeriodID,
		&m.ReversalOfID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJournalEntry inserts the entry header and its lines. Callers run it inside a transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	q := r.q(ctx)

	entryQuery := `INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := q.Exec(ctx, entryQuery,
		m.JournalEntryID,
		m.OrganizationID,
		m.EntryNumber,
		m.Description,
		m.EntryDate,
		m.Status,
		m.ApprovedBy,
		m.PostedAt,
		m.PeriodID,
		m.ReversalOfID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "save journal entry "+m.JournalEntryID)
	}

	lineQuery := `INSERT INTO journal_lines (` + journalLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for i, line := range entry.Lines {
		line.JournalEntryID = m.JournalEntryID
		ml := mapping.ToModelJournalLine(line, i+1)
		if _, err := q.Exec(ctx, lineQuery,
			ml.LineID,
			ml.JournalEntryID,
			ml.LineNo,
			ml.GLAccountID,
			ml.CostCenterID,
			ml.Description,
			ml.Debit,
			ml.Credit,
		); err != nil {
			return mapError(err, "save journal line "+strconv.Itoa(i+1)+" of "+m.JournalEntryID)
		}
	}
	return nil
}

// FindJournalEntryByID retrieves an entry and its lines in line order.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE journal_entry_id = $1;`
	m, err := scanJournalEntry(r.q(ctx).QueryRow(ctx, query, journalEntryID))
	if err != nil {
		return nil, mapError(err, "find journal entry "+journalEntryID)
	}
	entry := mapping.ToDomainJournalEntry(m)
	if entry.Lines, err = r.findLines(ctx, journalEntryID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, journalEntryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_entry_id = $1 ORDER BY line_no;`
	rows, err := r.q(ctx).Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, mapError(err, "query journal lines")
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var ml models.JournalLine
		if err := rows.Scan(
			&ml.LineID,
			&ml.JournalEntryID,
			&ml.LineNo,
			&ml.GLAccountID,
			&ml.CostCenterID,
			&ml.Description,
			&ml.Debit,
			&ml.Credit,
		); err != nil {
			return nil, mapError(err, "scan journal line")
		}
		lines = append(lines, mapping.ToDomainJournalLine(ml))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate journal lines")
	}
	return lines, nil
}

// FindReversalOf returns the entry whose reversal_of_id points at journalEntryID.
func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE reversal_of_id = $1;`
	m, err := scanJournalEntry(r.q(ctx).QueryRow(ctx, query, journalEntryID))
	if err != nil {
		return nil, mapError(err, "find reversal of "+journalEntryID)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// ListJournalEntries pages through an organization's entries, newest first.
// The token is the keyset position of the previous page's last row.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, params domain.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE organization_id = $1`
	args := []any{params.OrganizationID}

	if params.Status != nil {
		args = append(args, string(*params.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %v", err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.ID)
		n := len(args)
		query += ` AND (entry_date, created_at, journal_entry_id) < ($` + strconv.Itoa(n-2) + `, $` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, created_at DESC, journal_entry_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list journal entries")
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, mapError(err, "scan journal entry")
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate journal entries")
	}

	var nextToken *string
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.JournalEntryID})
		nextToken = &token
		modelEntries = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextToken, nil
}

// NextEntrySequence allocates the next number with an upsert, which holds the
// row lock until the surrounding transaction ends.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context, organizationID string, year int) (int64, error) {
	query := `
		INSERT INTO journal_entry_sequences (organization_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, year) DO UPDATE SET last_value = journal_entry_sequences.last_value + 1
		RETURNING last_value;`
	var next int64
	if err := r.q(ctx).QueryRow(ctx, query, organizationID, year).Scan(&next); err != nil {
		return 0, mapError(err, "allocate journal entry sequence")
	}
	return next, nil
}

// TransitionJournalEntry applies the status change only when the stored row
// still has an allowed source status and the expected version.
func (r *PgxJournalRepository) TransitionJournalEntry(ctx context.Context, update portsrepo.JournalStatusUpdate) error {
	from := make([]string, len(update.From))
	for i, s := range update.From {
		from[i] = string(s)
	}

	query := `
		UPDATE journal_entries
		SET status = $4,
			version = version + 1,
			approved_by = COALESCE($5, approved_by),
			posted_at = COALESCE($6, posted_at),
			period_id = COALESCE($7, period_id),
			last_updated_by = $8,
			last_updated_at = $9
		WHERE journal_entry_id = $1 AND status = ANY($2) AND version = $3;`
	tag, err := r.q(ctx).Exec(ctx, query,
		update.JournalEntryID,
		from,
		update.ExpectedVersion,
		string(update.To),
		update.ApprovedBy,
		update.PostedAt,
		update.PeriodID,
		update.UpdatedBy,
		update.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "transition journal entry "+update.JournalEntryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewStateConflictError("journal entry %s was modified concurrently or is no longer in an allowed status for %s", update.JournalEntryID, update.To)
	}
	return nil
}

func (r *PgxJournalRepository) BumpLedgerVersion(ctx context.Context, organizationID string) (int64, error) {
	query := `
		INSERT INTO ledger_versions (organization_id, version)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET version = ledger_versions.version + 1
		RETURNING version;`
	var version int64
	if err := r.q(ctx).QueryRow(ctx, query, organizationID).Scan(&version); err != nil {
		return 0, mapError(err, "bump ledger version")
	}
	return version, nil
}
