package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	JournalEntryID string     `db:"journal_entry_id"`
	OrganizationID string     `db:"organization_id"`
	EntryNumber    string     `db:"entry_number"`
	Description    string     `db:"description"`
	EntryDate      time.Time  `db:"entry_date"`
	Status         string     `db:"status"`
	ApprovedBy     *string    `db:"approved_by"`
	PostedAt       *time.Time `db:"posted_at"`
	PeriodID       *string    `db:"period_id"`
	ReversalOfID   *string    `db:"reversal_of_id"`
	Version        int64      `db:"version"`
	AuditFields
}

// JournalLine is a row of journal_lines. Amounts are NUMERIC(19,2).
type JournalLine struct {
	LineID         string          `db:"line_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	LineNo         int             `db:"line_no"`
	GLAccountID    string          `db:"gl_account_id"`
	CostCenterID   *string         `db:"cost_center_id"`
	Description    *string         `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
}
