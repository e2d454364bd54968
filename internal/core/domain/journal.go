package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
)

// JournalStatus is the lifecycle state of a journal entry.
type JournalStatus string

const (
	StatusDraft           JournalStatus = "DRAFT"
	StatusPendingApproval JournalStatus = "PENDING_APPROVAL"
	StatusApproved        JournalStatus = "APPROVED"
	StatusPosted          JournalStatus = "POSTED"
	StatusRejected        JournalStatus = "REJECTED"
)

// IsValid reports whether s is a known status.
func (s JournalStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusPosted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no forward transition leaves s.
func (s JournalStatus) IsTerminal() bool {
	return s == StatusPosted || s == StatusRejected
}

// JournalTransition names a lifecycle move of a journal entry.
type JournalTransition string

const (
	TransitionSubmit  JournalTransition = "submit"
	TransitionApprove JournalTransition = "approve"
	TransitionPost    JournalTransition = "post"
	TransitionReject  JournalTransition = "reject"
)

type transitionRule struct {
	from []JournalStatus
	to   JournalStatus
}

var journalTransitions = map[JournalTransition]transitionRule{
	TransitionSubmit:  {from: []JournalStatus{StatusDraft}, to: StatusPendingApproval},
	TransitionApprove: {from: []JournalStatus{StatusDraft, StatusPendingApproval}, to: StatusApproved},
	TransitionPost:    {from: []JournalStatus{StatusApproved}, to: StatusPosted},
	TransitionReject:  {from: []JournalStatus{StatusDraft, StatusPendingApproval}, to: StatusRejected},
}

// SourceStatuses lists the states from which t is legal.
func SourceStatuses(t JournalTransition) []JournalStatus {
	rule, ok := journalTransitions[t]
	if !ok {
		return nil
	}
	out := make([]JournalStatus, len(rule.from))
	copy(out, rule.from)
	return out
}

// Apply returns the state reached by applying t to s, or a state conflict when
// s is not a legal source for t.
func (s JournalStatus) Apply(t JournalTransition) (JournalStatus, error) {
	rule, ok := journalTransitions[t]
	if !ok {
		return s, fmt.Errorf("unknown journal transition %q", t)
	}
	for _, from := range rule.from {
		if s == from {
			return rule.to, nil
		}
	}
	return s, apperrors.NewStateConflictError("cannot %s a journal entry in status %s", t, s)
}

// JournalEntry is a dated, balanced set of lines moving value between accounts.
type JournalEntry struct {
	JournalEntryID string        `json:"journalEntryID"`
	OrganizationID string        `json:"organizationID"`
	EntryNumber    string        `json:"entryNumber"`
	Description    string        `json:"description"`
	Date           time.Time     `json:"date"`
	Status         JournalStatus `json:"status"`
	ApprovedBy     *string       `json:"approvedBy,omitempty"`
	PostedAt       *time.Time    `json:"postedAt,omitempty"`
	PeriodID       *string       `json:"periodID,omitempty"`
	ReversalOfID   *string       `json:"reversalOfID,omitempty"`
	Version        int64         `json:"version"`
	Lines          []JournalLine `json:"lines"`
	AuditFields
}

// Totals sums the debit and credit sides of the entry.
func (e JournalEntry) Totals() EntryTotals {
	return SumLines(e.Lines)
}

// JournalLine moves an amount on exactly one side of one account.
type JournalLine struct {
	LineID         string  `json:"lineID"`
	JournalEntryID string  `json:"journalEntryID"`
	GLAccountID    string  `json:"glAccountID"`
	CostCenterID   *string `json:"costCenterID,omitempty"`
	Description    *string `json:"description,omitempty"`
	Debit          Amount  `json:"debit"`
	Credit         Amount  `json:"credit"`
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// EntryTotals carries the debit and credit sums of a set of lines.
type EntryTotals struct {
	TotalDebit  Amount `json:"totalDebit"`
	TotalCredit Amount `json:"totalCredit"`
}

// Imbalance is debits minus credits.
func (t EntryTotals) Imbalance() Amount {
	return t.TotalDebit - t.TotalCredit
}

// SumLines totals the debit and credit sides of lines.
func SumLines(lines []JournalLine) EntryTotals {
	var t EntryTotals
	for _, l := range lines {
		t.TotalDebit += l.Debit
		t.TotalCredit += l.Credit
	}
	return t
}

// SumLinesChecked is SumLines failing with ErrAmountOverflow when a side overflows.
func SumLinesChecked(lines []JournalLine) (EntryTotals, error) {
	var (
		t   EntryTotals
		err error
	)
	for _, l := range lines {
		if t.TotalDebit, err = t.TotalDebit.Add(l.Debit); err != nil {
			return EntryTotals{}, err
		}
		if t.TotalCredit, err = t.TotalCredit.Add(l.Credit); err != nil {
			return EntryTotals{}, err
		}
	}
	return t, nil
}

// ListJournalEntriesParams filters and pages a journal listing.
type ListJournalEntriesParams struct {
	OrganizationID string
	Status         *JournalStatus
	Limit          int
	NextToken      *string
}
