package domain

import (
	"strconv"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
)

// ResourceType identifies the kind of approvable resource a workflow governs.
type ResourceType string

const (
	ResourceExpense          ResourceType = "EXPENSE"
	ResourceJournalEntry     ResourceType = "JOURNAL_ENTRY"
	ResourceVendorOnboarding ResourceType = "VENDOR_ONBOARDING"
	ResourceInvoice          ResourceType = "INVOICE"
)

// IsValid reports whether r is a known resource type.
func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceExpense, ResourceJournalEntry, ResourceVendorOnboarding, ResourceInvoice:
		return true
	}
	return false
}

// ApprovalLevel is the escalation tier implied by an amount.
type ApprovalLevel string

const (
	ApprovalAuto           ApprovalLevel = "auto"
	ApprovalDepartmentHead ApprovalLevel = "department_head"
	ApprovalFinanceManager ApprovalLevel = "finance_manager"
	ApprovalCFO            ApprovalLevel = "cfo"
)

// StepCondition restricts a step to resources at or above MinAmount.
type StepCondition struct {
	MinAmount *Amount `json:"minAmount,omitempty"`
}

// Matches reports whether a resource of the given amount needs the step.
func (c *StepCondition) Matches(amount Amount) bool {
	if c == nil || c.MinAmount == nil {
		return true
	}
	return amount >= *c.MinAmount
}

// WorkflowStep is one ordered, role-gated stage of a template.
type WorkflowStep struct {
	StepOrder    int            `json:"stepOrder"`
	Name         string         `json:"name"`
	ApproverRole string         `json:"approverRole"`
	Condition    *StepCondition `json:"condition,omitempty"`
}

// WorkflowTemplate is the approval recipe for one resource type in one organization.
type WorkflowTemplate struct {
	TemplateID     string         `json:"templateID"`
	OrganizationID string         `json:"organizationID"`
	Type           ResourceType   `json:"type"`
	Name           string         `json:"name"`
	IsActive       bool           `json:"isActive"`
	Steps          []WorkflowStep `json:"steps"`
	AuditFields
}

// InstanceStatus is the lifecycle state of a workflow instance.
type InstanceStatus string

const (
	InstanceInProgress InstanceStatus = "IN_PROGRESS"
	InstanceApproved   InstanceStatus = "APPROVED"
	InstanceRejected   InstanceStatus = "REJECTED"
)

// StepActionStatus is the state of a single step's action record.
type StepActionStatus string

const (
	ActionPending   StepActionStatus = "PENDING"
	ActionApproved  StepActionStatus = "APPROVED"
	ActionRejected  StepActionStatus = "REJECTED"
	ActionDelegated StepActionStatus = "DELEGATED"
	// ActionSkipped marks a step whose condition did not match the resource.
	ActionSkipped StepActionStatus = "SKIPPED"
)

// IsOpen reports whether the action still awaits a decision.
func (s StepActionStatus) IsOpen() bool {
	return s == ActionPending || s == ActionDelegated
}

// WorkflowStepAction records the decision taken on one step of an instance.
type WorkflowStepAction struct {
	ActionID     string           `json:"actionID"`
	InstanceID   string           `json:"instanceID"`
	StepOrder    int              `json:"stepOrder"`
	StepName     string           `json:"stepName"`
	ApproverRole string           `json:"approverRole"`
	Status       StepActionStatus `json:"status"`
	ActorID      *string          `json:"actorID,omitempty"`
	DelegatedBy  *string          `json:"delegatedBy,omitempty"`
	Comment      *string          `json:"comment,omitempty"`
	ActedAt      *time.Time       `json:"actedAt,omitempty"`
}

// WorkflowInstance is one run of a template over one resource.
type WorkflowInstance struct {
	InstanceID     string               `json:"instanceID"`
	TemplateID     string               `json:"templateID"`
	OrganizationID string               `json:"organizationID"`
	ResourceType   ResourceType         `json:"resourceType"`
	ResourceID     string               `json:"resourceID"`
	Amount         Amount               `json:"amount"`
	ApprovalLevel  ApprovalLevel        `json:"approvalLevel"`
	CurrentStep    int                  `json:"currentStep"`
	Status         InstanceStatus       `json:"status"`
	SubmittedBy    string               `json:"submittedBy"`
	Version        int64                `json:"version"`
	Actions        []WorkflowStepAction `json:"actions"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// StartWorkflow builds a new instance of template for a resource. Steps whose
// condition does not match amount are marked SKIPPED; when nothing remains to
// approve the instance is APPROVED immediately. IDs on the instance and its
// actions are left for the caller to assign.
func StartWorkflow(template WorkflowTemplate, resourceType ResourceType, resourceID string, amount Amount, submittedBy string, level ApprovalLevel, now time.Time) *WorkflowInstance {
	inst := &WorkflowInstance{
		TemplateID:     template.TemplateID,
		OrganizationID: template.OrganizationID,
		ResourceType:   resourceType,
		ResourceID:     resourceID,
		Amount:         amount,
		ApprovalLevel:  level,
		Status:         InstanceInProgress,
		SubmittedBy:    submittedBy,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
		Actions:        make([]WorkflowStepAction, 0, len(template.Steps)),
	}
	for _, step := range template.Steps {
		action := WorkflowStepAction{
			StepOrder:    step.StepOrder,
			StepName:     step.Name,
			ApproverRole: step.ApproverRole,
			Status:       ActionPending,
		}
		if !step.Condition.Matches(amount) {
			actor := SystemActorID
			acted := now
			action.Status = ActionSkipped
			action.ActorID = &actor
			action.ActedAt = &acted
		}
		inst.Actions = append(inst.Actions, action)
	}
	inst.advance()
	return inst
}

// advance moves CurrentStep to the first open action, completing the instance
// when none is left.
func (i *WorkflowInstance) advance() {
	for _, a := range i.Actions {
		if a.Status.IsOpen() {
			i.CurrentStep = a.StepOrder
			return
		}
	}
	i.Status = InstanceApproved
}

// Action returns the action record for stepOrder.
func (i *WorkflowInstance) Action(stepOrder int) (*WorkflowStepAction, bool) {
	for idx := range i.Actions {
		if i.Actions[idx].StepOrder == stepOrder {
			return &i.Actions[idx], true
		}
	}
	return nil, false
}

// IsTerminal reports whether the instance has finished.
func (i *WorkflowInstance) IsTerminal() bool {
	return i.Status != InstanceInProgress
}

// authorize checks the common preconditions of every step decision and returns
// the current step's action.
func (i *WorkflowInstance) authorize(stepOrder int, actor Actor) (*WorkflowStepAction, error) {
	if i.IsTerminal() {
		return nil, apperrors.NewStateConflictError("workflow instance %s is already %s", i.InstanceID, i.Status)
	}
	if stepOrder != i.CurrentStep {
		return nil, apperrors.NewStateConflictError("step %d is not current; current step is %d", stepOrder, i.CurrentStep)
	}
	action, ok := i.Action(stepOrder)
	if !ok {
		return nil, apperrors.NewNotFoundError("workflow step", strconv.Itoa(stepOrder))
	}
	if action.Status == ActionDelegated {
		if action.ActorID != nil && *action.ActorID == actor.UserID {
			return action, nil
		}
		return nil, apperrors.NewForbiddenError("step %d is delegated to another approver", stepOrder)
	}
	if actor.Role != action.ApproverRole {
		return nil, apperrors.NewForbiddenError("role %q cannot act on step %d, requires %q", actor.Role, stepOrder, action.ApproverRole)
	}
	return action, nil
}

func (i *WorkflowInstance) decide(action *WorkflowStepAction, status StepActionStatus, actorID string, comment *string, now time.Time) {
	acted := now
	action.Status = status
	action.ActorID = &actorID
	action.Comment = comment
	action.ActedAt = &acted
	i.UpdatedAt = now
}

// Approve records an approval of the current step and advances the instance.
func (i *WorkflowInstance) Approve(stepOrder int, actor Actor, comment *string, now time.Time) error {
	action, err := i.authorize(stepOrder, actor)
	if err != nil {
		return err
	}
	i.decide(action, ActionApproved, actor.UserID, comment, now)
	i.advance()
	return nil
}

// Reject records a rejection of the current step and terminates the instance.
// CurrentStep is left where the rejection happened.
func (i *WorkflowInstance) Reject(stepOrder int, actor Actor, comment *string, now time.Time) error {
	action, err := i.authorize(stepOrder, actor)
	if err != nil {
		return err
	}
	i.decide(action, ActionRejected, actor.UserID, comment, now)
	i.Status = InstanceRejected
	return nil
}

// Delegate hands the current step to delegateID, who inherits its authority.
func (i *WorkflowInstance) Delegate(stepOrder int, actor Actor, delegateID string, comment *string, now time.Time) error {
	if delegateID == "" {
		return apperrors.NewValidationError("delegate is required")
	}
	action, err := i.authorize(stepOrder, actor)
	if err != nil {
		return err
	}
	if delegateID == actor.UserID {
		return apperrors.NewValidationError("cannot delegate a step to yourself")
	}
	by := actor.UserID
	i.decide(action, ActionDelegated, delegateID, comment, now)
	action.DelegatedBy = &by
	return nil
}

// FinalApprover returns the actor of the last approved step, if any.
func (i *WorkflowInstance) FinalApprover() string {
	for idx := len(i.Actions) - 1; idx >= 0; idx-- {
		a := i.Actions[idx]
		if a.Status == ActionApproved && a.ActorID != nil {
			return *a.ActorID
		}
	}
	return i.SubmittedBy
}

// BulkApprovalResult is the outcome of approving one instance in a batch.
type BulkApprovalResult struct {
	InstanceID string            `json:"instanceID"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Instance   *WorkflowInstance `json:"instance,omitempty"`
}
