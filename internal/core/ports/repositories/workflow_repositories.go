package repositories

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// WorkflowReader defines read operations for approval workflows.
type WorkflowReader interface {
	// FindTemplate retrieves the active template of a type for an organization.
	FindTemplate(ctx context.Context, organizationID string, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error)

	// FindInstanceByID retrieves an instance and its step actions.
	FindInstanceByID(ctx context.Context, instanceID string) (*domain.WorkflowInstance, error)

	// FindInstanceByResource retrieves the most recent instance governing a resource.
	FindInstanceByResource(ctx context.Context, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error)
}

// WorkflowWriter defines write operations for approval workflows.
type WorkflowWriter interface {
	// SaveTemplate inserts a template with its steps, replacing the active template of the same type.
	SaveTemplate(ctx context.Context, template domain.WorkflowTemplate) error

	// SaveInstance inserts a new instance and its step actions.
	SaveInstance(ctx context.Context, instance domain.WorkflowInstance) error

	// UpdateInstance writes the instance state and its actions when the stored
	// version equals expectedVersion, storing instance.Version as the new one.
	// It returns ErrStateConflict otherwise.
	UpdateInstance(ctx context.Context, instance domain.WorkflowInstance, expectedVersion int64) error
}

// WorkflowRepositoryFacade combines all workflow-related repository interfaces.
type WorkflowRepositoryFacade interface {
	WorkflowReader
	WorkflowWriter
}
