package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance_core/internal/models"
	"github.com/SscSPs/erp_finance_core/internal/utils/mapping"
)

const (
	templateColumns = `template_id, organization_id, type, name, is_active, created_at, created_by, last_updated_at, last_updated_by`
	stepColumns     = `template_id, step_order, name, approver_role, min_amount`
	instanceColumns = `instance_id, template_id, organization_id, resource_type, resource_id, amount, approval_level,
	current_step, status, submitted_by, version, created_at, updated_at`
	actionColumns = `action_id, instance_id, step_order, step_name, approver_role, status, actor_id, delegated_by, comment, acted_at`
)

type PgxWorkflowRepository struct {
	BaseRepository
}

func newPgxWorkflowRepository(pool DBPool) *PgxWorkflowRepository {
	return &PgxWorkflowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkflowRepositoryFacade = (*PgxWorkflowRepository)(nil)

// SaveTemplate retires the currently active template of the same type and inserts the new one.
func (r *PgxWorkflowRepository) SaveTemplate(ctx context.Context, template domain.WorkflowTemplate) error {
	m := mapping.ToModelWorkflowTemplate(template)
	q := r.q(ctx)

	retire := `UPDATE workflow_templates SET is_active = FALSE, last_updated_by = $3, last_updated_at = $4
		WHERE organization_id = $1 AND type = $2 AND is_active;`
	if _, err := q.Exec(ctx, retire, m.OrganizationID, m.Type, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
		return mapError(err, "retire workflow template")
	}

	insert := `INSERT INTO workflow_templates (` + templateColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	if _, err := q.Exec(ctx, insert,
		m.TemplateID, m.OrganizationID, m.Type, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return mapError(err, "save workflow template "+m.TemplateID)
	}

	stepInsert := `INSERT INTO workflow_steps (` + stepColumns + `) VALUES ($1, $2, $3, $4, $5);`
	for _, step := range template.Steps {
		ms := mapping.ToModelWorkflowStep(m.TemplateID, step)
		if _, err := q.Exec(ctx, stepInsert, ms.TemplateID, ms.StepOrder, ms.Name, ms.ApproverRole, ms.MinAmount); err != nil {
			return mapError(err, "save workflow step")
		}
	}
	return nil
}

func (r *PgxWorkflowRepository) FindTemplate(ctx context.Context, organizationID string, resourceType domain.ResourceType) (*domain.WorkflowTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM workflow_templates WHERE organization_id = $1 AND type = $2 AND is_active;`
	var m models.WorkflowTemplate
	err := r.q(ctx).QueryRow(ctx, query, organizationID, string(resourceType)).Scan(
		&m.TemplateID, &m.OrganizationID, &m.Type, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "find workflow template "+string(resourceType))
	}

	rows, err := r.q(ctx).Query(ctx, `SELECT `+stepColumns+` FROM workflow_steps WHERE template_id = $1 ORDER BY step_order;`, m.TemplateID)
	if err != nil {
		return nil, mapError(err, "query workflow steps")
	}
	defer rows.Close()
	var steps []models.WorkflowStep
	for rows.Next() {
		var s models.WorkflowStep
		if err := rows.Scan(&s.TemplateID, &s.StepOrder, &s.Name, &s.ApproverRole, &s.MinAmount); err != nil {
			return nil, mapError(err, "scan workflow step")
		}
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate workflow steps")
	}

	tpl := mapping.ToDomainWorkflowTemplate(m, steps)
	return &tpl, nil
}

func scanInstance(row pgx.Row) (models.WorkflowInstance, error) {
	var m models.WorkflowInstance
	err := row.Scan(
		&m.InstanceID,
		&m.TemplateID,
		&m.OrganizationID,
		&m.ResourceType,
		&m.ResourceID,
		&m.Amount,
		&m.ApprovalLevel,
		&m.CurrentStep,
		&m.Status,
		&m.SubmittedBy,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxWorkflowRepository) FindInstanceByID(ctx context.Context, instanceID string) (*domain.WorkflowInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM workflow_instances WHERE instance_id = $1;`
	m, err := scanInstance(r.q(ctx).QueryRow(ctx, query, instanceID))
	if err != nil {
		return nil, mapError(err, "find workflow instance "+instanceID)
	}
	return r.withActions(ctx, m)
}

func (r *PgxWorkflowRepository) FindInstanceByResource(ctx context.Context, resourceType domain.ResourceType, resourceID string) (*domain.WorkflowInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM workflow_instances
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC LIMIT 1;`
	m, err := scanInstance(r.q(ctx).QueryRow(ctx, query, string(resourceType), resourceID))
	if err != nil {
		return nil, mapError(err, "find workflow instance for "+string(resourceType)+" "+resourceID)
	}
	return r.withActions(ctx, m)
}

func (r *PgxWorkflowRepository) withActions(ctx context.Context, m models.WorkflowInstance) (*domain.WorkflowInstance, error) {
	query := `SELECT ` + actionColumns + ` FROM workflow_step_actions WHERE instance_id = $1 ORDER BY step_order;`
	rows, err := r.q(ctx).Query(ctx, query, m.InstanceID)
	if err != nil {
		return nil, mapError(err, "query workflow step actions")
	}
	defer rows.Close()

	var actions []models.WorkflowStepAction
	for rows.Next() {
		var a models.WorkflowStepAction
		if err := rows.Scan(
			&a.ActionID, &a.InstanceID, &a.StepOrder, &a.StepName, &a.ApproverRole,
			&a.Status, &a.ActorID, &a.DelegatedBy, &a.Comment, &a.ActedAt,
		); err != nil {
			return nil, mapError(err, "scan workflow step action")
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate workflow step actions")
	}

	inst := mapping.ToDomainWorkflowInstance(m, actions)
	return &inst, nil
}

func (r *PgxWorkflowRepository) SaveInstance(ctx context.Context, instance domain.WorkflowInstance) error {
	m := mapping.ToModelWorkflowInstance(instance)
	query := `INSERT INTO workflow_instances (` + instanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	if _, err := r.q(ctx).Exec(ctx, query,
		m.InstanceID, m.TemplateID, m.OrganizationID, m.ResourceType, m.ResourceID, m.Amount, m.ApprovalLevel,
		m.CurrentStep, m.Status, m.SubmittedBy, m.Version, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return mapError(err, "save workflow instance "+m.InstanceID)
	}
	return r.upsertActions(ctx, instance)
}

// UpdateInstance is an optimistic write: it only applies while the stored version is expectedVersion.
func (r *PgxWorkflowRepository) UpdateInstance(ctx context.Context, instance domain.WorkflowInstance, expectedVersion int64) error {
	m := mapping.ToModelWorkflowInstance(instance)
	query := `UPDATE workflow_instances
		SET current_step = $2, status = $3, version = $4, updated_at = $5
		WHERE instance_id = $1 AND version = $6;`
	tag, err := r.q(ctx).Exec(ctx, query, m.InstanceID, m.CurrentStep, m.Status, m.Version, m.UpdatedAt, expectedVersion)
	if err != nil {
		return mapError(err, "update workflow instance "+m.InstanceID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewStateConflictError("workflow instance %s was modified concurrently", m.InstanceID)
	}
	return r.upsertActions(ctx, instance)
}

func (r *PgxWorkflowRepository) upsertActions(ctx context.Context, instance domain.WorkflowInstance) error {
	query := `INSERT INTO workflow_step_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (action_id) DO UPDATE SET
			approver_role = EXCLUDED.approver_role,
			status = EXCLUDED.status,
			actor_id = EXCLUDED.actor_id,
			delegated_by = EXCLUDED.delegated_by,
			comment = EXCLUDED.comment,
			acted_at = EXCLUDED.acted_at;`
	for _, action := range instance.Actions {
		a := mapping.ToModelWorkflowStepAction(instance.InstanceID, action)
		if _, err := r.q(ctx).Exec(ctx, query,
			a.ActionID, a.InstanceID, a.StepOrder, a.StepName, a.ApproverRole,
			a.Status, a.ActorID, a.DelegatedBy, a.Comment, a.ActedAt,
		); err != nil {
			return mapError(err, "save workflow step action "+a.ActionID)
		}
	}
	return nil
}
