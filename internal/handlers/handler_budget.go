package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvc
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvc) {
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("/:id", h.getBudget)
		budgets.GET("/:id/variance", h.getBudgetVariance)
	}
}

func (h *budgetHandler) createBudget(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.CreateBudget(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create budget")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Budget created",
		slog.String("budget_id", budget.BudgetID),
		slog.String("department_id", budget.DepartmentID),
		slog.Int("fiscal_year", budget.FiscalYear),
	)
	c.JSON(http.StatusCreated, budget)
}

func (h *budgetHandler) getBudget(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	budget, err := h.budgetService.GetBudget(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// getBudgetVariance compares each line's allocation with its actual amount.
func (h *budgetHandler) getBudgetVariance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	variance, err := h.budgetService.GetBudgetVariance(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to compute budget variance")
		return
	}
	c.JSON(http.StatusOK, variance)
}
