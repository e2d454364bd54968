package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodAdminSvc
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodAdminSvc) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:id/close", h.closePeriod)
		periods.POST("/:id/reopen", h.reopenPeriod)
	}
}

func (h *periodHandler) createPeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	period, err := h.periodService.CreatePeriod(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create fiscal period")
		return
	}
	c.JSON(http.StatusCreated, period)
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	periods, err := h.periodService.ListPeriods(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to close fiscal period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal period closed", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, period)
}

// reopenPeriod requires a justification, which is kept in the audit trail.
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ReopenPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	period, err := h.periodService.ReopenPeriod(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reopen fiscal period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Fiscal period reopened", slog.String("period_id", period.PeriodID), slog.String("reason", req.Reason))
	c.JSON(http.StatusOK, period)
}
