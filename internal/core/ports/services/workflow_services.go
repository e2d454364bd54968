package services

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
)

// WorkflowCompletionHook runs inside the transaction that moves an instance to
// APPROVED or REJECTED. An error rolls the whole decision back.
type WorkflowCompletionHook func(ctx context.Context, instance *domain.WorkflowInstance) error

// WorkflowTemplateSvc manages approval templates.
type WorkflowTemplateSvc interface {
	// CreateTemplate stores a template, replacing the organization's active template of the same type.
	CreateTemplate(ctx context.Context, actor domain.Actor, req dto.CreateWorkflowTemplateRequest) (*domain.WorkflowTemplate, error)

	// GetTemplate returns the active template of a type.
	GetTemplate(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error)
}

// WorkflowEngineSvc runs approval instances.
type WorkflowEngineSvc interface {
	// Submit starts an instance for a resource. It returns ErrNotFound when no template exists.
	Submit(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string, amount domain.Amount) (*domain.WorkflowInstance, error)

	Approve(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error)
	Reject(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error)
	Delegate(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, delegateID string, comment *string) (*domain.WorkflowInstance, error)

	GetInstance(ctx context.Context, actor domain.Actor, instanceID string) (*domain.WorkflowInstance, error)
	GetInstanceByResource(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error)

	// RegisterCompletionHook attaches hook to instances of resourceType.
	RegisterCompletionHook(resourceType domain.ResourceType, hook WorkflowCompletionHook)
}

// BulkApprovalSvc approves many instances concurrently.
type BulkApprovalSvc interface {
	// BulkApprove approves the current step of each instance in its own transaction.
	// Results are returned in input order; one failure does not affect the others.
	BulkApprove(ctx context.Context, actor domain.Actor, instanceIDs []string, comment *string) []domain.BulkApprovalResult
}

// WorkflowSvcFacade combines all workflow-related service interfaces.
type WorkflowSvcFacade interface {
	WorkflowTemplateSvc
	WorkflowEngineSvc
}
