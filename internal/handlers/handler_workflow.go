package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler handles approval templates and instances.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
	bulkService     portssvc.BulkApprovalSvc
}

type instanceByResourceParams struct {
	ResourceType string `form:"resourceType" binding:"required,resourcetype"`
	ResourceID   string `form:"resourceID" binding:"required"`
}

type bulkApproveResponse struct {
	Results   []domain.BulkApprovalResult `json:"results"`
	Succeeded int                         `json:"succeeded"`
	Failed    int                         `json:"failed"`
}

// registerWorkflowRoutes registers the approval workflow routes.
func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade, bulkService portssvc.BulkApprovalSvc) {
	h := &workflowHandler{workflowService: workflowService, bulkService: bulkService}

	workflows := rg.Group("/workflows")
	{
		workflows.POST("/templates", h.createTemplate)
		workflows.GET("/templates/:type", h.getTemplate)

		workflows.POST("/instances", h.submit)
		workflows.GET("/instances", h.getInstanceByResource)
		workflows.POST("/instances/bulk-approve", h.bulkApprove)
		workflows.GET("/instances/:id", h.getInstance)
		workflows.POST("/instances/:id/steps/:step/approve", h.approveStep)
		workflows.POST("/instances/:id/steps/:step/reject", h.rejectStep)
		workflows.POST("/instances/:id/steps/:step/delegate", h.delegateStep)
	}
}

// createTemplate replaces the active template for a resource type.
// POST /workflows/templates
func (h *workflowHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateWorkflowTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.workflowService.CreateTemplate(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create workflow template")
		return
	}
	logger.Info("Workflow template created", slog.String("template_id", tpl.TemplateID), slog.String("type", string(tpl.Type)))
	c.JSON(http.StatusCreated, tpl)
}

func (h *workflowHandler) getTemplate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	resourceType := domain.ResourceType(strings.ToUpper(c.Param("type")))
	tpl, err := h.workflowService.GetTemplate(c.Request.Context(), actor, resourceType)
	if err != nil {
		respondError(c, err, "Failed to retrieve workflow template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// submit starts approval of an arbitrary resource.
// POST /workflows/instances
func (h *workflowHandler) submit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.SubmitWorkflowRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := domain.AmountFromDecimal(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	instance, err := h.workflowService.Submit(c.Request.Context(), actor, domain.ResourceType(req.ResourceType), req.ResourceID, amount)
	if err != nil {
		respondError(c, err, "Failed to submit resource for approval")
		return
	}
	c.JSON(http.StatusCreated, instance)
}

func (h *workflowHandler) getInstance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	instance, err := h.workflowService.GetInstance(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve workflow instance")
		return
	}
	c.JSON(http.StatusOK, instance)
}

func (h *workflowHandler) getInstanceByResource(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params instanceByResourceParams
	if !bindQuery(c, &params) {
		return
	}
	instance, err := h.workflowService.GetInstanceByResource(c.Request.Context(), actor, domain.ResourceType(params.ResourceType), params.ResourceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workflow instance")
		return
	}
	c.JSON(http.StatusOK, instance)
}

// stepOrder parses the :step path parameter or writes a 400.
func stepOrder(c *gin.Context) (int, bool) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be a positive integer"})
		return 0, false
	}
	return step, true
}

func (h *workflowHandler) approveStep(c *gin.Context) {
	h.decide(c, "approve")
}

func (h *workflowHandler) rejectStep(c *gin.Context) {
	h.decide(c, "reject")
}

// decide applies an approve or reject decision to the addressed step.
func (h *workflowHandler) decide(c *gin.Context, decision string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	step, ok := stepOrder(c)
	if !ok {
		return
	}
	var req dto.StepDecisionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	instanceID := c.Param("id")
	var (
		instance *domain.WorkflowInstance
		err      error
	)
	if decision == "approve" {
		instance, err = h.workflowService.Approve(c.Request.Context(), actor, instanceID, step, req.Comment)
	} else {
		instance, err = h.workflowService.Reject(c.Request.Context(), actor, instanceID, step, req.Comment)
	}
	if err != nil {
		respondError(c, err, "Failed to "+decision+" workflow step")
		return
	}
	logger.Info("Workflow step decided",
		slog.String("instance_id", instanceID),
		slog.Int("step", step),
		slog.String("decision", decision),
		slog.String("status", string(instance.Status)),
	)
	c.JSON(http.StatusOK, instance)
}

func (h *workflowHandler) delegateStep(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	step, ok := stepOrder(c)
	if !ok {
		return
	}
	var req dto.DelegateStepRequest
	if !bindJSON(c, &req) {
		return
	}
	instance, err := h.workflowService.Delegate(c.Request.Context(), actor, c.Param("id"), step, req.DelegateID, req.Comment)
	if err != nil {
		respondError(c, err, "Failed to delegate workflow step")
		return
	}
	c.JSON(http.StatusOK, instance)
}

// bulkApprove approves the current step of each instance independently.
// The response is 200 even when some instances fail; each result carries its own outcome.
func (h *workflowHandler) bulkApprove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BulkApproveRequest
	if !bindJSON(c, &req) {
		return
	}

	results := h.bulkService.BulkApprove(c.Request.Context(), actor, req.InstanceIDs, req.Comment)
	resp := bulkApproveResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	logger.Info("Bulk approval finished", slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}
