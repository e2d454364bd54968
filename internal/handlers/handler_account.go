package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/children", h.listChildren)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.PUT("/:id/tags", h.updateAccountTags)
		accounts.DELETE("/:id", h.deactivateAccount)
	}
}

// createAccount adds an account to the caller's chart.
// POST /accounts
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("classification", req.Classification))
	account, err := h.accountService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, account)
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: accounts})
}

func (h *accountHandler) getAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *accountHandler) listChildren(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	children, err := h.accountService.ListChildren(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list child accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: children})
}

// getAccountBalance returns the signed balance of an account, optionally as of a date.
// Parent accounts roll up their subtree.
// GET /accounts/:id/balance?asOf=YYYY-MM-DD
func (h *accountHandler) getAccountBalance(c *gin.Context) {
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

	balance, err := h.accountService.GetAccountBalance(c.Request.Context(), actor, c.Param("id"), asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *accountHandler) updateAccountTags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountTagsRequest
	if !bindJSON(c, &req) {
		return
	}

	accountID := c.Param("id")
	account, err := h.accountService.UpdateAccountTags(c.Request.Context(), actor, accountID, req.Tags)
	if err != nil {
		respondError(c, err, "Failed to update account tags")
		return
	}
	logger.Info("Account tags updated", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, account)
}

// deactivateAccount marks an account inactive.
// DELETE /accounts/:id
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), actor, accountID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
