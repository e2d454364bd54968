package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// statementHandler serves the financial statements as JSON or XLSX.
type statementHandler struct {
	statementService portssvc.StatementSvc
	now              func() time.Time
}

func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvc) {
	h := &statementHandler{statementService: statementService, now: time.Now}

	statements := rg.Group("/statements")
	{
		statements.GET("/trial-balance", h.getTrialBalance)
		statements.GET("/income-statement", h.getIncomeStatement)
		statements.GET("/balance-sheet", h.getBalanceSheet)
		statements.GET("/cash-flow", h.getCashFlowStatement)
	}
}

// renderReport writes report in the requested format. A report failing an
// accounting identity is still returned, with a 500, so it can be investigated.
func renderReport[T any](c *gin.Context, report *T, err error, format, filename string, workbook func(*T) (*excelize.File, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) && report != nil {
			logger.Error("Generated report failed integrity check", slog.String("report", filename), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.Message(err), "report": report})
			return
		}
		respondError(c, err, "Failed to generate "+filename)
		return
	}

	if format != dto.ReportFormatXLSX {
		c.JSON(http.StatusOK, report)
		return
	}

	f, err := workbook(report)
	if err != nil {
		logger.Error("Failed to build spreadsheet", slog.String("report", filename), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export " + filename})
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("Failed to close spreadsheet", slog.String("error", cerr.Error()))
		}
	}()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename+".xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Error("Failed to write spreadsheet", slog.String("report", filename), slog.String("error", err.Error()))
	}
}

// dateRange parses and orders the startDate/endDate query parameters.
func dateRange(c *gin.Context) (dto.DateRangeParams, time.Time, time.Time, bool) {
	var params dto.DateRangeParams
	if !bindQuery(c, &params) {
		return params, time.Time{}, time.Time{}, false
	}
	start, err := dto.ParseDate(params.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return params, time.Time{}, time.Time{}, false
	}
	end, err := dto.ParseDate(params.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return params, time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
		return params, time.Time{}, time.Time{}, false
	}
	return params, start, end, true
}

// getTrialBalance lists every account with posted activity up to asOf, or all time.
// GET /statements/trial-balance?asOf=YYYY-MM-DD&format=json|xlsx
func (h *statementHandler) getTrialBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if !bindQuery(c, &params) {
		return
	}
	asOf, err := dto.ParseOptionalDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.statementService.GetTrialBalance(c.Request.Context(), actor, asOf)
	renderReport(c, report, err, params.Format, "trial-balance", trialBalanceWorkbook)
}

// GET /statements/income-statement?startDate=&endDate=&format=
func (h *statementHandler) getIncomeStatement(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params, start, end, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.statementService.GenerateIncomeStatement(c.Request.Context(), actor, start, end)
	renderReport(c, report, err, params.Format, "income-statement", incomeStatementWorkbook)
}

// getBalanceSheet reports positions as of asOf, defaulting to today (UTC).
func (h *statementHandler) getBalanceSheet(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if !bindQuery(c, &params) {
		return
	}
	asOf, err := dto.ParseOptionalDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if asOf == nil {
		today := domain.DateOnly(h.now())
		asOf = &today
	}
	report, err := h.statementService.GenerateBalanceSheet(c.Request.Context(), actor, *asOf)
	renderReport(c, report, err, params.Format, "balance-sheet", balanceSheetWorkbook)
}

func (h *statementHandler) getCashFlowStatement(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params, start, end, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.statementService.GenerateCashFlowStatement(c.Request.Context(), actor, start, end)
	renderReport(c, report, err, params.Format, "cash-flow", cashFlowWorkbook)
}
