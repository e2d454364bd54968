package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkflowTemplate struct {
	TemplateID     string `db:"template_id"`
	OrganizationID string `db:"organization_id"`
	Type           string `db:"type"`
	Name           string `db:"name"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

type WorkflowStep struct {
	TemplateID   string              `db:"template_id"`
	StepOrder    int                 `db:"step_order"`
	Name         string              `db:"name"`
	ApproverRole string              `db:"approver_role"`
	MinAmount    decimal.NullDecimal `db:"min_amount"`
}

type WorkflowInstance struct {
	InstanceID     string          `db:"instance_id"`
	TemplateID     string          `db:"template_id"`
	OrganizationID string          `db:"organization_id"`
	ResourceType   string          `db:"resource_type"`
	ResourceID     string          `db:"resource_id"`
	Amount         decimal.Decimal `db:"amount"`
	ApprovalLevel  string          `db:"approval_level"`
	CurrentStep    int             `db:"current_step"`
	Status         string          `db:"status"`
	SubmittedBy    string          `db:"submitted_by"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type WorkflowStepAction struct {
	ActionID     string     `db:"action_id"`
	InstanceID   string     `db:"instance_id"`
	StepOrder    int        `db:"step_order"`
	StepName     string     `db:"step_name"`
	ApproverRole string     `db:"approver_role"`
	Status       string     `db:"status"`
	ActorID      *string    `db:"actor_id"`
	DelegatedBy  *string    `db:"delegated_by"`
	Comment      *string    `db:"comment"`
	ActedAt      *time.Time `db:"acted_at"`
}
