package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultJournalPageSize = 20

// journalHandler handles HTTP requests for journal entries and their lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// submitJournalEntryResponse pairs a submitted entry with the workflow it started, if any.
type submitJournalEntryResponse struct {
	Entry    dto.JournalEntryResponse `json:"entry"`
	Workflow *domain.WorkflowInstance `json:"workflow,omitempty"`
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:id", h.getJournalEntry)
		entries.POST("/:id/submit", h.submitJournalEntry)
		entries.POST("/:id/approve", h.approveJournalEntry)
		entries.POST("/:id/reject", h.rejectJournalEntry)
		entries.POST("/:id/post", h.postJournalEntry)
		entries.POST("/:id/reverse", h.reverseJournalEntry)
	}
}

// createJournalEntry stores a new DRAFT entry.
// POST /journal-entries
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	logger.Info("Received request to create journal entry", slog.String("date", req.Date), slog.Int("line_count", len(req.Lines)))
	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("journal_entry_id", entry.JournalEntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries returns a page of entries, newest first.
// GET /journal-entries?status=&limit=&nextToken=
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.ListJournalEntriesParams
	if !bindQuery(c, &params) {
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultJournalPageSize
	}

	entries, nextToken, err := h.journalService.ListJournalEntries(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, nextToken))
}

func (h *journalHandler) getJournalEntry(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// submitJournalEntry moves a DRAFT entry into approval.
func (h *journalHandler) submitJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, instance, err := h.journalService.SubmitJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to submit journal entry")
		return
	}
	if instance != nil {
		logger.Info("Journal entry submitted for approval", slog.String("journal_entry_id", entry.JournalEntryID), slog.String("instance_id", instance.InstanceID))
	}
	c.JSON(http.StatusOK, submitJournalEntryResponse{Entry: dto.ToJournalEntryResponse(entry), Workflow: instance})
}

func (h *journalHandler) approveJournalEntry(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.ApproveJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to approve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) rejectJournalEntry(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RejectJournalEntryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	entry, err := h.journalService.RejectJournalEntry(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postJournalEntry posts an APPROVED entry into the open period covering its date.
// A closed period answers 423 Locked.
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	logger.Info("Journal entry posted", slog.String("journal_entry_id", entry.JournalEntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	reversal, err := h.journalService.ReverseJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	logger.Info("Journal entry reversed", slog.String("original_id", c.Param("id")), slog.String("reversal_id", reversal.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
