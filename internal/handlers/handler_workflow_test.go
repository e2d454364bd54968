package handlers_test

import (
	"net/http"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/stretchr/testify/mock"
)

func expenseInstance(status domain.InstanceStatus, step int) *domain.WorkflowInstance {
	return &domain.WorkflowInstance{
		InstanceID:     "wf-1",
		TemplateID:     "tpl-exp",
		OrganizationID: testActor.OrganizationID,
		ResourceType:   domain.ResourceExpense,
		ResourceID:     "exp-42",
		Amount:         domain.NewAmount(7500),
		CurrentStep:    step,
		Status:         status,
	}
}

func (suite *HandlerTestSuite) TestCreateTemplate() {
	suite.workflows.On("CreateTemplate", mock.Anything, testActor, mock.MatchedBy(func(r dto.CreateWorkflowTemplateRequest) bool {
		return r.Type == "EXPENSE" && len(r.Steps) == 2 && r.Steps[1].MinAmount != nil
	})).Return(&domain.WorkflowTemplate{TemplateID: "tpl-exp", Type: domain.ResourceExpense, IsActive: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/templates", map[string]any{
		"type": "EXPENSE",
		"name": "Expense approval",
		"steps": []map[string]any{
			{"stepOrder": 1, "name": "Department head", "approverRole": "department_head"},
			{"stepOrder": 2, "name": "Finance", "approverRole": "finance_manager", "minAmount": "5000"},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("tpl-exp", decode[domain.WorkflowTemplate](suite, w).TemplateID)
}

func (suite *HandlerTestSuite) TestCreateTemplate_UnknownType() {
	w := suite.do(http.MethodPost, "/api/v1/workflows/templates", map[string]any{
		"type":  "PAYROLL",
		"name":  "Payroll",
		"steps": []map[string]any{{"stepOrder": 1, "name": "CFO", "approverRole": "cfo"}},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetTemplate_NormalizesType() {
	suite.workflows.On("GetTemplate", mock.Anything, testActor, domain.ResourceInvoice).
		Return(nil, apperrors.NewNotFoundError("workflow template", "INVOICE")).Once()

	w := suite.do(http.MethodGet, "/api/v1/workflows/templates/invoice", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSubmitResource() {
	suite.workflows.On("Submit", mock.Anything, testActor, domain.ResourceExpense, "exp-42", domain.NewAmount(7500)).
		Return(expenseInstance(domain.InstanceInProgress, 1), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances", map[string]any{
		"resourceType": "EXPENSE",
		"resourceID":   "exp-42",
		"amount":       "7500.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
	got := decode[domain.WorkflowInstance](suite, w)
	suite.Equal(domain.InstanceInProgress, got.Status)
	suite.Equal(domain.NewAmount(7500), got.Amount)
}

func (suite *HandlerTestSuite) TestSubmitResource_AlreadyInProgress() {
	suite.workflows.On("Submit", mock.Anything, testActor, domain.ResourceExpense, "exp-42", domain.NewAmount(10)).
		Return(nil, apperrors.NewStateConflictError("EXPENSE exp-42 already has an approval in progress")).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances", map[string]any{
		"resourceType": "EXPENSE", "resourceID": "exp-42", "amount": 10,
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGetInstanceByResource() {
	suite.workflows.On("GetInstanceByResource", mock.Anything, testActor, domain.ResourceExpense, "exp-42").
		Return(expenseInstance(domain.InstanceApproved, 2), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/workflows/instances?resourceType=EXPENSE&resourceID=exp-42", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/workflows/instances?resourceType=EXPENSE", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestApproveStep() {
	comment := "looks fine"
	suite.workflows.On("Approve", mock.Anything, testActor, "wf-1", 1, &comment).
		Return(expenseInstance(domain.InstanceInProgress, 2), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/wf-1/steps/1/approve", dto.StepDecisionRequest{Comment: &comment})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(2, decode[domain.WorkflowInstance](suite, w).CurrentStep)
}

func (suite *HandlerTestSuite) TestApproveStep_StaleStep() {
	suite.workflows.On("Approve", mock.Anything, testActor, "wf-1", 1, (*string)(nil)).
		Return(nil, apperrors.NewStateConflictError("instance wf-1 is at step 2, not 1")).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/wf-1/steps/1/approve", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorMessage(w), "step 2")
}

func (suite *HandlerTestSuite) TestRejectStep_WrongRole() {
	suite.workflows.On("Reject", mock.Anything, testActor, "wf-1", 1, (*string)(nil)).
		Return(nil, apperrors.NewForbiddenError("step 1 requires role cfo")).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/wf-1/steps/1/reject", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestDecision_InvalidStep() {
	for _, path := range []string{
		"/api/v1/workflows/instances/wf-1/steps/zero/approve",
		"/api/v1/workflows/instances/wf-1/steps/0/reject",
		"/api/v1/workflows/instances/wf-1/steps/-1/delegate",
	} {
		w := suite.do(http.MethodPost, path, map[string]any{"delegateID": "user-2"})
		suite.Equal(http.StatusBadRequest, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestDelegateStep() {
	suite.workflows.On("Delegate", mock.Anything, testActor, "wf-1", 1, "user-2", (*string)(nil)).
		Return(expenseInstance(domain.InstanceInProgress, 1), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/wf-1/steps/1/delegate", dto.DelegateStepRequest{DelegateID: "user-2"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/workflows/instances/wf-1/steps/1/delegate", map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestBulkApprove() {
	ids := []string{"wf-1", "wf-2", "wf-3"}
	suite.bulk.On("BulkApprove", mock.Anything, testActor, ids, (*string)(nil)).Return([]domain.BulkApprovalResult{
		{InstanceID: "wf-1", Success: true, Instance: expenseInstance(domain.InstanceApproved, 1)},
		{InstanceID: "wf-2", Success: false, Error: "state conflict: instance wf-2 is REJECTED"},
		{InstanceID: "wf-3", Success: true, Instance: expenseInstance(domain.InstanceInProgress, 2)},
	}).Once()

	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/bulk-approve", dto.BulkApproveRequest{InstanceIDs: ids})

	suite.Equal(http.StatusOK, w.Code)
	resp := decode[struct {
		Results   []domain.BulkApprovalResult `json:"results"`
		Succeeded int                         `json:"succeeded"`
		Failed    int                         `json:"failed"`
	}](suite, w)
	suite.Equal(2, resp.Succeeded)
	suite.Equal(1, resp.Failed)
	suite.Require().Len(resp.Results, 3)
	suite.Equal("wf-2", resp.Results[1].InstanceID)
}

func (suite *HandlerTestSuite) TestBulkApprove_EmptyBatch() {
	w := suite.do(http.MethodPost, "/api/v1/workflows/instances/bulk-approve", map[string]any{"instanceIDs": []string{}})
	suite.Equal(http.StatusBadRequest, w.Code)
}
