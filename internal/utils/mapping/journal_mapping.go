package mapping

import (
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry (without lines) to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID: d.JournalEntryID,
		OrganizationID: d.OrganizationID,
		EntryNumber:    d.EntryNumber,
		Description:    d.Description,
		EntryDate:      domain.DateOnly(d.Date),
		Status:         string(d.Status),
		ApprovedBy:     d.ApprovedBy,
		PostedAt:       d.PostedAt,
		PeriodID:       d.PeriodID,
		ReversalOfID:   d.ReversalOfID,
		Version:        d.Version,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry. Lines are attached by the caller.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID: m.JournalEntryID,
		OrganizationID: m.OrganizationID,
		EntryNumber:    m.EntryNumber,
		Description:    m.Description,
		Date:           domain.DateOnly(m.EntryDate),
		Status:         domain.JournalStatus(m.Status),
		ApprovedBy:     m.ApprovedBy,
		PostedAt:       m.PostedAt,
		PeriodID:       m.PeriodID,
		ReversalOfID:   m.ReversalOfID,
		Version:        m.Version,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine at position lineNo
func ToModelJournalLine(d domain.JournalLine, lineNo int) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		LineNo:         lineNo,
		GLAccountID:    d.GLAccountID,
		CostCenterID:   d.CostCenterID,
		Description:    d.Description,
		Debit:          d.Debit.Decimal(),
		Credit:         d.Credit.Decimal(),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		GLAccountID:    m.GLAccountID,
		CostCenterID:   m.CostCenterID,
		Description:    m.Description,
		Debit:          ToAmount(m.Debit),
		Credit:         ToAmount(m.Credit),
	}
}
