package services

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetJournalEntry retrieves an entry with its lines.
	GetJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries and the token of the next page.
	ListJournalEntries(ctx context.Context, actor domain.Actor, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)
}

// JournalWriterSvc drives journal entries through their lifecycle.
type JournalWriterSvc interface {
	// CreateJournalEntry validates and stores a new DRAFT entry with a freshly allocated entry number.
	CreateJournalEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)

	// SubmitJournalEntry moves a DRAFT entry to PENDING_APPROVAL and starts its approval
	// workflow when a template exists. The returned instance is nil otherwise.
	SubmitJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, *domain.WorkflowInstance, error)

	// ApproveJournalEntry approves a DRAFT or PENDING_APPROVAL entry directly.
	ApproveJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error)

	// RejectJournalEntry rejects a DRAFT or PENDING_APPROVAL entry.
	RejectJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string, reason string) (*domain.JournalEntry, error)

	// PostJournalEntry posts an APPROVED entry into the open period covering its date.
	PostJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry creates and posts the mirror image of a POSTED entry, dated today.
	ReverseJournalEntry(ctx context.Context, actor domain.Actor, journalEntryID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
