package dto

import (
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a new journal entry. Exactly one of Debit or Credit must be nonzero.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Description  *string         `json:"description,omitempty" binding:"omitempty,max=255"`
	Debit        decimal.Decimal `json:"debit" binding:"money"`
	Credit       decimal.Decimal `json:"credit" binding:"money"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
type CreateJournalEntryRequest struct {
	Description string               `json:"description" binding:"required,max=500"`
	Date        string               `json:"date" binding:"required,datetime=2006-01-02"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// RejectJournalEntryRequest carries the reason for rejecting an entry.
type RejectJournalEntryRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ListJournalEntriesParams defines the query parameters of the journal listing.
type ListJournalEntriesParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED POSTED REJECTED"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID string                `json:"journalEntryID"`
	OrganizationID string                `json:"organizationID"`
	EntryNumber    string                `json:"entryNumber"`
	Description    string                `json:"description"`
	Date           string                `json:"date"`
	Status         string                `json:"status"`
	ApprovedBy     *string               `json:"approvedBy,omitempty"`
	PostedAt       *time.Time            `json:"postedAt,omitempty"`
	PeriodID       *string               `json:"periodID,omitempty"`
	ReversalOfID   *string               `json:"reversalOfID,omitempty"`
	TotalDebit     decimal.Decimal       `json:"totalDebit"`
	TotalCredit    decimal.Decimal       `json:"totalCredit"`
	Lines          []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
	LastUpdatedAt  time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy  string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	totals := e.Totals()
	resp := JournalEntryResponse{
		JournalEntryID: e.JournalEntryID,
		OrganizationID: e.OrganizationID,
		EntryNumber:    e.EntryNumber,
		Description:    e.Description,
		Date:           e.Date.Format(domain.DateLayout),
		Status:         string(e.Status),
		ApprovedBy:     e.ApprovedBy,
		PostedAt:       e.PostedAt,
		PeriodID:       e.PeriodID,
		ReversalOfID:   e.ReversalOfID,
		TotalDebit:     totals.TotalDebit.Decimal(),
		TotalCredit:    totals.TotalCredit.Decimal(),
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
		LastUpdatedAt:  e.LastUpdatedAt,
		LastUpdatedBy:  e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineID:       l.LineID,
				AccountID:    l.GLAccountID,
				CostCenterID: l.CostCenterID,
				Description:  l.Description,
				Debit:        l.Debit.Decimal(),
				Credit:       l.Credit.Decimal(),
			}
		}
	}
	return resp
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	resp := ListJournalEntriesResponse{
		Entries:   make([]JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return resp
}
