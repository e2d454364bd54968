package domain

import "time"

// AuditEvent is the metadata of an action handed to the audit sink.
type AuditEvent struct {
	OrganizationID string         `json:"organizationID"`
	ActorID        string         `json:"actorID"`
	Action         string         `json:"action"`
	TargetType     string         `json:"targetType"`
	TargetID       string         `json:"targetID"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// Audit actions emitted by the core.
const (
	AuditJournalCreated   = "journal_entry.created"
	AuditJournalSubmitted = "journal_entry.submitted"
	AuditJournalApproved  = "journal_entry.approved"
	AuditJournalRejected  = "journal_entry.rejected"
	AuditJournalPosted    = "journal_entry.posted"
	AuditJournalReversed  = "journal_entry.reversed"
	AuditWorkflowStarted  = "workflow.started"
	AuditWorkflowStep     = "workflow.step_decided"
	AuditPeriodClosed     = "fiscal_period.closed"
	AuditPeriodReopened   = "fiscal_period.reopened"
	AuditAccountCreated   = "gl_account.created"
	AuditAccountUpdated   = "gl_account.updated"
	AuditBudgetCreated    = "budget.created"
)
