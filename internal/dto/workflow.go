package dto

import "github.com/shopspring/decimal"

// WorkflowStepRequest defines one step of a template.
type WorkflowStepRequest struct {
	StepOrder    int              `json:"stepOrder" binding:"required,min=1"`
	Name         string           `json:"name" binding:"required,max=100"`
	ApproverRole string           `json:"approverRole" binding:"required,max=50"`
	MinAmount    *decimal.Decimal `json:"minAmount,omitempty" binding:"omitempty,money"`
}

// CreateWorkflowTemplateRequest defines the approval steps for a resource type.
type CreateWorkflowTemplateRequest struct {
	Type  string                `json:"type" binding:"required,resourcetype"`
	Name  string                `json:"name" binding:"required,max=100"`
	Steps []WorkflowStepRequest `json:"steps" binding:"required,min=1,dive"`
}

// SubmitWorkflowRequest starts approval of a resource.
type SubmitWorkflowRequest struct {
	ResourceType string          `json:"resourceType" binding:"required,resourcetype"`
	ResourceID   string          `json:"resourceID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"money"`
}

// StepDecisionRequest is the body of an approve or reject call.
type StepDecisionRequest struct {
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// DelegateStepRequest hands a step to another user.
type DelegateStepRequest struct {
	DelegateID string  `json:"delegateID" binding:"required"`
	Comment    *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
}

// BulkApproveRequest approves the current step of several instances.
type BulkApproveRequest struct {
	InstanceIDs []string `json:"instanceIDs" binding:"required,min=1,max=200,dive,required"`
	Comment     *string  `json:"comment,omitempty" binding:"omitempty,max=1000"`
}
