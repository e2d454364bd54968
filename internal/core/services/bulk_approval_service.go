package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/panjf2000/ants/v2"
)

// bulkApprovalService fans approvals out over a bounded worker pool.
type bulkApprovalService struct {
	BaseService
	workflows portssvc.WorkflowEngineSvc
	pool      *ants.Pool
}

// NewBulkApprovalService creates a bulk approver running on pool. The pool is
// owned by the caller.
func NewBulkApprovalService(workflows portssvc.WorkflowEngineSvc, pool *ants.Pool, options ...Option) portssvc.BulkApprovalSvc {
	return &bulkApprovalService{
		BaseService: newBaseService(options),
		workflows:   workflows,
		pool:        pool,
	}
}

// NewWorkerPool creates the pool used for bulk approval.
func NewWorkerPool(size int) (*ants.Pool, error) {
	return ants.NewPool(size, ants.WithPanicHandler(func(p any) {
		slog.Error("Bulk approval worker panicked", slog.Any("panic", p))
	}))
}

func (s *bulkApprovalService) BulkApprove(ctx context.Context, actor domain.Actor, instanceIDs []string, comment *string) []domain.BulkApprovalResult {
	results := make([]domain.BulkApprovalResult, len(instanceIDs))
	var wg sync.WaitGroup
	for i, id := range instanceIDs {
		// Stays in place if the task panics.
		results[i] = domain.BulkApprovalResult{InstanceID: id, Error: apperrors.ErrInternal.Error()}

		wg.Add(1)
		i, id := i, id
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.approveOne(ctx, actor, id, comment)
		})
		if err != nil {
			wg.Done()
			s.LogError(ctx, err, "Failed to submit approval to worker pool", slog.String("instance_id", id))
			results[i] = domain.BulkApprovalResult{InstanceID: id, Error: err.Error()}
		}
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	s.LogInfo(ctx, "Bulk approval finished",
		slog.Int("requested", len(instanceIDs)),
		slog.Int("succeeded", succeeded))
	return results
}

// approveOne approves the current step of one instance. Each call runs in its own transaction.
func (s *bulkApprovalService) approveOne(ctx context.Context, actor domain.Actor, instanceID string, comment *string) domain.BulkApprovalResult {
	result := domain.BulkApprovalResult{InstanceID: instanceID}
	current, err := s.workflows.GetInstance(ctx, actor, instanceID)
	if err == nil && current.IsTerminal() {
		err = apperrors.NewStateConflictError("workflow instance %s is already %s", instanceID, current.Status)
	}
	if err == nil {
		current, err = s.workflows.Approve(ctx, actor, instanceID, current.CurrentStep, comment)
	}
	if err != nil {
		result.Error = apperrors.Message(err)
		return result
	}
	result.Success = true
	result.Instance = current
	return result
}
