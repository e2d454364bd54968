package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/models"
)

func ToModelWorkflowTemplate(d domain.WorkflowTemplate) models.WorkflowTemplate {
	return models.WorkflowTemplate{
		TemplateID:     d.TemplateID,
		OrganizationID: d.OrganizationID,
		Type:           string(d.Type),
		Name:           d.Name,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainWorkflowTemplate(m models.WorkflowTemplate, steps []models.WorkflowStep) domain.WorkflowTemplate {
	tpl := domain.WorkflowTemplate{
		TemplateID:     m.TemplateID,
		OrganizationID: m.OrganizationID,
		Type:           domain.ResourceType(m.Type),
		Name:           m.Name,
		IsActive:       m.IsActive,
		Steps:          make([]domain.WorkflowStep, 0, len(steps)),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for _, s := range steps {
		tpl.Steps = append(tpl.Steps, ToDomainWorkflowStep(s))
	}
	return tpl
}

func ToModelWorkflowStep(templateID string, d domain.WorkflowStep) models.WorkflowStep {
	step := models.WorkflowStep{
		TemplateID:   templateID,
		StepOrder:    d.StepOrder,
		Name:         d.Name,
		ApproverRole: d.ApproverRole,
	}
	if d.Condition != nil && d.Condition.MinAmount != nil {
		step.MinAmount = decimal.NewNullDecimal(d.Condition.MinAmount.Decimal())
	}
	return step
}

func ToDomainWorkflowStep(m models.WorkflowStep) domain.WorkflowStep {
	step := domain.WorkflowStep{
		StepOrder:    m.StepOrder,
		Name:         m.Name,
		ApproverRole: m.ApproverRole,
	}
	if m.MinAmount.Valid {
		minAmount := ToAmount(m.MinAmount.Decimal)
		step.Condition = &domain.StepCondition{MinAmount: &minAmount}
	}
	return step
}

func ToModelWorkflowInstance(d domain.WorkflowInstance) models.WorkflowInstance {
	return models.WorkflowInstance{
		InstanceID:     d.InstanceID,
		TemplateID:     d.TemplateID,
		OrganizationID: d.OrganizationID,
		ResourceType:   string(d.ResourceType),
		ResourceID:     d.ResourceID,
		Amount:         d.Amount.Decimal(),
		ApprovalLevel:  string(d.ApprovalLevel),
		CurrentStep:    d.CurrentStep,
		Status:         string(d.Status),
		SubmittedBy:    d.SubmittedBy,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func ToDomainWorkflowInstance(m models.WorkflowInstance, actions []models.WorkflowStepAction) domain.WorkflowInstance {
	inst := domain.WorkflowInstance{
		InstanceID:     m.InstanceID,
		TemplateID:     m.TemplateID,
		OrganizationID: m.OrganizationID,
		ResourceType:   domain.ResourceType(m.ResourceType),
		ResourceID:     m.ResourceID,
		Amount:         ToAmount(m.Amount),
		ApprovalLevel:  domain.ApprovalLevel(m.ApprovalLevel),
		CurrentStep:    m.CurrentStep,
		Status:         domain.InstanceStatus(m.Status),
		SubmittedBy:    m.SubmittedBy,
		Version:        m.Version,
		Actions:        make([]domain.WorkflowStepAction, 0, len(actions)),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, a := range actions {
		inst.Actions = append(inst.Actions, domain.WorkflowStepAction{
			ActionID:     a.ActionID,
			InstanceID:   a.InstanceID,
			StepOrder:    a.StepOrder,
			StepName:     a.StepName,
			ApproverRole: a.ApproverRole,
			Status:       domain.StepActionStatus(a.Status),
			ActorID:      a.ActorID,
			DelegatedBy:  a.DelegatedBy,
			Comment:      a.Comment,
			ActedAt:      a.ActedAt,
		})
	}
	return inst
}

func ToModelWorkflowStepAction(instanceID string, d domain.WorkflowStepAction) models.WorkflowStepAction {
	return models.WorkflowStepAction{
		ActionID:     d.ActionID,
		InstanceID:   instanceID,
		StepOrder:    d.StepOrder,
		StepName:     d.StepName,
		ApproverRole: d.ApproverRole,
		Status:       string(d.Status),
		ActorID:      d.ActorID,
		DelegatedBy:  d.DelegatedBy,
		Comment:      d.Comment,
		ActedAt:      d.ActedAt,
	}
}
