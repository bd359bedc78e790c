package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dockpass/internal/service"
)

// DispatchHandler handles the dispatch flow: load batches, load scans and
// gatepass issuance.
type DispatchHandler struct {
	dispatchService service.DispatchService
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(dispatchService service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchService: dispatchService}
}

// StartBatch handles POST /api/v1/dispatch/batch
func (h *DispatchHandler) StartBatch(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.StartBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	state, err := h.dispatchService.StartBatch(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// GetBatch handles GET /api/v1/dispatch/batch
func (h *DispatchHandler) GetBatch(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	state, err := h.dispatchService.GetBatch(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// EndBatch handles DELETE /api/v1/dispatch/batch
func (h *DispatchHandler) EndBatch(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	h.dispatchService.EndBatch(userID)
	RespondOK(c, gin.H{"ended": true})
}

// LoadScan handles POST /api/v1/dispatch/scan
// @Summary Record a load scan
// @Description Verify one physical item against the audit record during vehicle loading; customer labels only
// @Tags dispatch
// @Accept json
// @Produce json
// @Param body body service.LoadScanInput true "Load scan event"
// @Success 200 {object} APIResponse{data=service.LoadScanResponse}
// @Failure 409 {object} APIResponse "Item not expected or already loaded"
// @Security BearerAuth
// @Router /dispatch/scan [post]
func (h *DispatchHandler) LoadScan(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.LoadScanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.dispatchService.LoadScan(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// IssueGatepass handles POST /api/v1/dispatch/gatepass
// Issuance is gated: every audited item must be load-scanned first.
func (h *DispatchHandler) IssueGatepass(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.IssueGatepassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	gp, payload, err := h.dispatchService.IssueGatepass(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"gatepass": gp, "payload": payload})
}

// GetGatepass handles GET /api/v1/dispatch/gatepasses/:id
func (h *DispatchHandler) GetGatepass(c *gin.Context) {
	gatepassID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid gatepass id")
		return
	}

	gp, err := h.dispatchService.GetGatepass(c.Request.Context(), gatepassID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gp)
}

// ListGatepasses handles GET /api/v1/dispatch/gatepasses
func (h *DispatchHandler) ListGatepasses(c *gin.Context) {
	offset, limit := parsePagination(c)

	passes, total, err := h.dispatchService.ListGatepasses(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, passes, PagMeta{Total: total, Offset: offset, Limit: limit})
}
