package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"dockpass/internal/service"
)

// ReportHandler streams CSV registers.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportDispatched handles GET /api/v1/reports/dispatched.csv
func (h *ReportHandler) ExportDispatched(c *gin.Context) {
	filename := fmt.Sprintf("dispatch-register-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.reportService.ExportDispatched(c.Request.Context(), c.Writer); err != nil {
		HandleError(c, err)
		return
	}
}

// ExportAlerts handles GET /api/v1/reports/alerts.csv
func (h *ReportHandler) ExportAlerts(c *gin.Context) {
	filename := fmt.Sprintf("mismatch-register-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.reportService.ExportAlerts(c.Request.Context(), c.Writer); err != nil {
		HandleError(c, err)
		return
	}
}
