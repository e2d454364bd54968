package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry together with its lines.
	FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries (without lines) and the token of the next page.
	ListJournalEntries(ctx context.Context, params domain.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)

	// FindReversalOf returns the entry reversing journalEntryID, or ErrNotFound.
	FindReversalOf(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
}

// JournalStatusUpdate is an optimistic status transition. It only applies when
// the stored entry is in one of From and still carries ExpectedVersion.
type JournalStatusUpdate struct {
	JournalEntryID  string
	From            []domain.JournalStatus
	To              domain.JournalStatus
	ExpectedVersion int64
	ApprovedBy      *string
	PostedAt        *time.Time
	PeriodID        *string
	UpdatedBy       string
	UpdatedAt       time.Time
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// NextEntrySequence atomically allocates the next entry sequence number for (organization, year).
	NextEntrySequence(ctx context.Context, organizationID string, year int) (int64, error)

	// SaveJournalEntry inserts an entry and all of its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// TransitionJournalEntry applies an optimistic status change. It returns
	// ErrStateConflict when no row matched the expected status and version.
	TransitionJournalEntry(ctx context.Context, update JournalStatusUpdate) error

	LedgerVersionWriter
}

// LedgerVersionWriter advances the version statement caches are keyed on. It is
// bumped by anything that changes what a statement would show: posting, reversal,
// and account tag or status changes.
type LedgerVersionWriter interface {
	// BumpLedgerVersion increments the organization's ledger version and returns it.
	BumpLedgerVersion(ctx context.Context, organizationID string) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
