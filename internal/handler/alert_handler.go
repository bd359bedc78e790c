package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dockpass/internal/service"
)

// AlertHandler exposes the mismatch audit trail.
type AlertHandler struct {
	alertService service.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List handles GET /api/v1/alerts
func (h *AlertHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	alerts, total, err := h.alertService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, alerts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByInvoice handles GET /api/v1/invoices/:id/alerts
func (h *AlertHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	alerts, err := h.alertService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, alerts)
}
