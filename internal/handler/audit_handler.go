package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dockpass/internal/service"
)

// AuditHandler handles the document audit flow: the cascading filter, the
// scan session and scan events.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Customers handles GET /api/v1/audit/filters/customers
func (h *AuditHandler) Customers(c *gin.Context) {
	codes, err := h.auditService.CustomerOptions(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, codes)
}

// Dates handles GET /api/v1/audit/filters/dates?customer=ACME
func (h *AuditHandler) Dates(c *gin.Context) {
	customer := c.Query("customer")
	if customer == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_CUSTOMER", "customer query parameter is required")
		return
	}

	dates, err := h.auditService.DateOptions(c.Request.Context(), customer)
	if err != nil {
		HandleError(c, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	RespondOK(c, out)
}

// Locations handles GET /api/v1/audit/filters/locations?customer=ACME&date=2026-08-30
func (h *AuditHandler) Locations(c *gin.Context) {
	customer, date, ok := h.customerAndDate(c)
	if !ok {
		return
	}

	locations, err := h.auditService.LocationOptions(c.Request.Context(), customer, date)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, locations)
}

// Times handles GET /api/v1/audit/filters/times?customer=ACME&date=2026-08-30&location=Dock+1
func (h *AuditHandler) Times(c *gin.Context) {
	customer, date, ok := h.customerAndDate(c)
	if !ok {
		return
	}

	times, err := h.auditService.TimeOptions(c.Request.Context(), customer, date, c.QueryArray("location"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, times)
}

// PreviewSelection handles POST /api/v1/audit/selection
func (h *AuditHandler) PreviewSelection(c *gin.Context) {
	var input service.StartSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	state, err := h.auditService.PreviewSelection(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// StartSession handles POST /api/v1/audit/session
// @Summary Start an audit session
// @Description Resolve the filter selection into an invoice set and open a scan session for the calling operator
// @Tags audit
// @Accept json
// @Produce json
// @Param body body service.StartSessionInput true "Filter selection"
// @Success 200 {object} APIResponse{data=service.SessionState}
// @Failure 400 {object} APIResponse "Selection matched no invoices"
// @Security BearerAuth
// @Router /audit/session [post]
func (h *AuditHandler) StartSession(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.StartSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	state, err := h.auditService.StartSession(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// GetSession handles GET /api/v1/audit/session
func (h *AuditHandler) GetSession(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	state, err := h.auditService.GetSession(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// EndSession handles DELETE /api/v1/audit/session
func (h *AuditHandler) EndSession(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	h.auditService.EndSession(userID)
	RespondOK(c, gin.H{"ended": true})
}

// Scan handles POST /api/v1/audit/scan
// @Summary Record a scan
// @Description Feed one barcode read into the operator's session; two reads resolve to a match or a mismatch
// @Tags audit
// @Accept json
// @Produce json
// @Param body body service.ScanInput true "Scan event"
// @Success 200 {object} APIResponse{data=service.ScanResponse}
// @Failure 409 {object} APIResponse "Duplicate scan, blocked invoice, or no active session"
// @Security BearerAuth
// @Router /audit/scan [post]
func (h *AuditHandler) Scan(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.ScanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.auditService.Scan(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// ClearScan handles DELETE /api/v1/audit/scan
func (h *AuditHandler) ClearScan(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	state, err := h.auditService.ClearScan(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

func (h *AuditHandler) customerAndDate(c *gin.Context) (string, time.Time, bool) {
	customer := c.Query("customer")
	if customer == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_CUSTOMER", "customer query parameter is required")
		return "", time.Time{}, false
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return "", time.Time{}, false
	}
	return customer, date, true
}
