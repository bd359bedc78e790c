package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dockpass/internal/domain"
	"dockpass/internal/service"
)

// InvoiceHandler handles invoice worklist endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	auditService   service.AuditService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, auditService service.AuditService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, auditService: auditService}
}

// List handles GET /api/v1/invoices?view=needs-audit
// @Summary List invoices by view
// @Description List invoices in one of the worklist views: needs-audit, needs-dispatch, blocked, dispatched
// @Tags invoices
// @Produce json
// @Param view query string false "Worklist view" default(needs-audit)
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Invoice,meta=PagMeta}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	view, ok := domain.AllowedViews[c.DefaultQuery("view", "needs-audit")]
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_VIEW",
			"view must be one of: needs-audit, needs-dispatch, blocked, dispatched")
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.ListByView(c.Request.Context(), view, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// CompleteAudit handles POST /api/v1/invoices/:id/complete-audit
// The explicit completion action: reaching 100% scan progress alone never
// completes an audit.
func (h *InvoiceHandler) CompleteAudit(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	if err := h.auditService.CompleteAudit(c.Request.Context(), invoiceID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"invoice_id": invoiceID, "audit_complete": true})
}

// Unblock handles POST /api/v1/invoices/:id/unblock (admin only)
func (h *InvoiceHandler) Unblock(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	if err := h.auditService.Unblock(c.Request.Context(), invoiceID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"invoice_id": invoiceID, "blocked": false})
}
