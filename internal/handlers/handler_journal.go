package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/dto"
	"github.com/SscSPs/accounting_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes registers all journal entry routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.POST("/validate", h.validateLines)
		entries.GET("/by-number/:entryNumber", h.getEntryByNumber)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates an unposted, balanced journal entry with its lines
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entry"
// @Failure 409 {object} map[string]string "Closed period"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create journal entry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Tags journal-entries
// @Produce  json
// @Param   isPosted query bool false "Posted filter"
// @Param   currencyCode query string false "Currency filter"
// @Param   dateFrom query string false "From date (YYYY-MM-DD)"
// @Param   dateTo query string false "To date (YYYY-MM-DD)"
// @Param   search query string false "Search in number, description and voucher"
// @Param   includeLines query bool false "Include lines"
// @Param   page query int false "Page (1-based)"
// @Param   pageSize query int false "Page size"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(page))
}

// validateLines godoc
// @Summary Check whether a set of lines balances
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   lines body dto.ValidateJournalLinesRequest true "Lines"
// @Success 200 {object} domain.BalanceValidation
// @Security BearerAuth
// @Router /journal-entries/validate [post]
func (h *journalHandler) validateLines(c *gin.Context) {
	var req dto.ValidateJournalLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	validation, err := h.journalService.ValidateLines(c.Request.Context(), req.Lines)
	if err != nil {
		respondError(c, err, "Failed to validate journal lines")
		return
	}
	c.JSON(http.StatusOK, validation)
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntryByNumber godoc
// @Summary Get a journal entry by its number
// @Tags journal-entries
// @Produce  json
// @Param   entryNumber path string true "Entry number (PREFIX-YYYYMM-NNNN)"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/by-number/{entryNumber} [get]
func (h *journalHandler) getEntryByNumber(c *gin.Context) {
	entryNumber := c.Param("entryNumber")

	entry, err := h.journalService.GetEntryByNumber(c.Request.Context(), entryNumber)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update an unposted journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Changes"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry already posted or closed period"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Posting freezes the entry; corrections go through reversal
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Already posted"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete an unposted journal entry
// @Tags journal-entries
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Posted entries cannot be deleted"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID, userID); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional description and date"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Not posted or already reversed"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	var req dto.ReverseJournalEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
