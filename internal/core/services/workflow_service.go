package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/utils/accounting"
	"github.com/google/uuid"
)

// workflowService implements the WorkflowSvcFacade interface
type workflowService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	workflowRepo portsrepo.WorkflowRepositoryFacade

	mu    sync.RWMutex
	hooks map[domain.ResourceType][]portssvc.WorkflowCompletionHook
}

// NewWorkflowService creates a new approval workflow engine.
func NewWorkflowService(txManager portsrepo.TransactionManager, workflowRepo portsrepo.WorkflowRepositoryFacade, options ...Option) portssvc.WorkflowSvcFacade {
	return &workflowService{
		BaseService:  newBaseService(options),
		txManager:    txManager,
		workflowRepo: workflowRepo,
		hooks:        make(map[domain.ResourceType][]portssvc.WorkflowCompletionHook),
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

func (s *workflowService) RegisterCompletionHook(resourceType domain.ResourceType, hook portssvc.WorkflowCompletionHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[resourceType] = append(s.hooks[resourceType], hook)
}

func (s *workflowService) runHooks(ctx context.Context, instance *domain.WorkflowInstance) error {
	s.mu.RLock()
	hooks := s.hooks[instance.ResourceType]
	s.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(ctx, instance); err != nil {
			return err
		}
	}
	return nil
}

func (s *workflowService) CreateTemplate(ctx context.Context, actor domain.Actor, req dto.CreateWorkflowTemplateRequest) (*domain.WorkflowTemplate, error) {
	const op = "create_workflow_template"
	resourceType := domain.ResourceType(req.Type)
	if !resourceType.IsValid() {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("invalid workflow type %q", req.Type))
	}
	steps, err := buildSteps(req.Steps)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	now := s.Now()
	template := domain.WorkflowTemplate{
		TemplateID:     uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		Type:           resourceType,
		Name:           req.Name,
		IsActive:       true,
		Steps:          steps,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.workflowRepo.SaveTemplate(ctx, template)
	}); err != nil {
		return nil, s.fail(ctx, op, err, slog.String("type", req.Type))
	}
	return &template, nil
}

func buildSteps(reqs []dto.WorkflowStepRequest) ([]domain.WorkflowStep, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("a workflow template needs at least one step")
	}
	steps := make([]domain.WorkflowStep, 0, len(reqs))
	prev := 0
	for i, r := range reqs {
		if r.StepOrder <= prev {
			return nil, apperrors.NewValidationError("step %d: step orders must be positive and strictly increasing", i+1)
		}
		if r.ApproverRole == "" {
			return nil, apperrors.NewValidationError("step %d: approver role is required", r.StepOrder)
		}
		step := domain.WorkflowStep{StepOrder: r.StepOrder, Name: r.Name, ApproverRole: r.ApproverRole}
		if r.MinAmount != nil {
			minAmount, err := domain.AmountFromDecimal(*r.MinAmount)
			if err != nil || minAmount < 0 {
				return nil, apperrors.NewValidationError("step %d: invalid minimum amount %s", r.StepOrder, r.MinAmount.String())
			}
			step.Condition = &domain.StepCondition{MinAmount: &minAmount}
		}
		steps = append(steps, step)
		prev = r.StepOrder
	}
	return steps, nil
}

func (s *workflowService) GetTemplate(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error) {
	return s.workflowRepo.FindTemplate(ctx, actor.OrganizationID, resourceType)
}

func (s *workflowService) Submit(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string, amount domain.Amount) (*domain.WorkflowInstance, error) {
	const op = "submit_workflow"
	if !resourceType.IsValid() {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("invalid resource type %q", resourceType))
	}
	if resourceID == "" {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("resource ID is required"))
	}
	if amount < 0 {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("amount must not be negative"))
	}

	var instance *domain.WorkflowInstance
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		template, err := s.workflowRepo.FindTemplate(ctx, actor.OrganizationID, resourceType)
		if err != nil {
			return err
		}
		existing, err := s.workflowRepo.FindInstanceByResource(ctx, resourceType, resourceID)
		switch {
		case err == nil:
			if !existing.IsTerminal() || existing.TemplateID == template.TemplateID {
				return apperrors.NewStateConflictError("%s %s already has an approval workflow (%s)", resourceType, resourceID, existing.Status)
			}
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		instance = domain.StartWorkflow(*template, resourceType, resourceID, amount, actor.UserID,
			accounting.DetermineApprovalLevel(amount), s.Now())
		instance.InstanceID = uuid.NewString()
		for i := range instance.Actions {
			instance.Actions[i].ActionID = uuid.NewString()
			instance.Actions[i].InstanceID = instance.InstanceID
		}
		if err := s.workflowRepo.SaveInstance(ctx, *instance); err != nil {
			return err
		}
		if instance.IsTerminal() {
			return s.runHooks(ctx, instance)
		}
		return nil
	})
	if err != nil {
		// A missing template is an expected outcome for callers that fall back to direct approval.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, s.fail(ctx, op, err, slog.String("resource_id", resourceID))
	}

	s.LogInfo(ctx, "Workflow started",
		slog.String("instance_id", instance.InstanceID),
		slog.String("resource_type", string(resourceType)),
		slog.String("approval_level", string(instance.ApprovalLevel)),
		slog.String("status", string(instance.Status)))
	s.audit(ctx, actor, domain.AuditWorkflowStarted, string(resourceType), resourceID, map[string]any{
		"instanceID":    instance.InstanceID,
		"amount":        instance.Amount.String(),
		"approvalLevel": string(instance.ApprovalLevel),
		"status":        string(instance.Status),
	})
	return instance, nil
}

func (s *workflowService) Approve(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error) {
	return s.decide(ctx, actor, instanceID, stepOrder, string(domain.ActionApproved), func(i *domain.WorkflowInstance) error {
		return i.Approve(stepOrder, actor, comment, s.Now())
	})
}

func (s *workflowService) Reject(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, comment *string) (*domain.WorkflowInstance, error) {
	return s.decide(ctx, actor, instanceID, stepOrder, string(domain.ActionRejected), func(i *domain.WorkflowInstance) error {
		return i.Reject(stepOrder, actor, comment, s.Now())
	})
}

func (s *workflowService) Delegate(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, delegateID string, comment *string) (*domain.WorkflowInstance, error) {
	return s.decide(ctx, actor, instanceID, stepOrder, string(domain.ActionDelegated), func(i *domain.WorkflowInstance) error {
		return i.Delegate(stepOrder, actor, delegateID, comment, s.Now())
	})
}

// decide applies one step decision under an optimistic version check and runs
// the completion hooks in the same transaction when the instance finishes.
func (s *workflowService) decide(ctx context.Context, actor domain.Actor, instanceID string, stepOrder int, decision string, apply func(*domain.WorkflowInstance) error) (*domain.WorkflowInstance, error) {
	var instance *domain.WorkflowInstance
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		instance, err = s.workflowRepo.FindInstanceByID(ctx, instanceID)
		if err != nil {
			return err
		}
		if err := sameOrganization(actor, instance.OrganizationID, "workflow instance", instanceID); err != nil {
			return err
		}
		expected := instance.Version
		if err := apply(instance); err != nil {
			return err
		}
		instance.Version = expected + 1
		if err := s.workflowRepo.UpdateInstance(ctx, *instance, expected); err != nil {
			return err
		}
		if instance.IsTerminal() {
			return s.runHooks(ctx, instance)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "workflow_"+decision, err,
			slog.String("instance_id", instanceID),
			slog.Int("step_order", stepOrder))
	}

	s.metrics.WorkflowDecision(string(instance.ResourceType), decision)
	s.LogInfo(ctx, "Workflow step decided",
		slog.String("instance_id", instanceID),
		slog.Int("step_order", stepOrder),
		slog.String("decision", decision),
		slog.String("instance_status", string(instance.Status)))
	s.audit(ctx, actor, domain.AuditWorkflowStep, string(instance.ResourceType), instance.ResourceID, map[string]any{
		"instanceID": instanceID,
		"stepOrder":  stepOrder,
		"decision":   decision,
		"status":     string(instance.Status),
	})
	return instance, nil
}

func (s *workflowService) GetInstance(ctx context.Context, actor domain.Actor, instanceID string) (*domain.WorkflowInstance, error) {
	instance, err := s.workflowRepo.FindInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := sameOrganization(actor, instance.OrganizationID, "workflow instance", instanceID); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *workflowService) GetInstanceByResource(ctx context.Context, actor domain.Actor, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error) {
	instance, err := s.workflowRepo.FindInstanceByResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if err := sameOrganization(actor, instance.OrganizationID, "workflow instance", resourceID); err != nil {
		return nil, err
	}
	return instance, nil
}
