package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dockpass/internal/domain"
	"dockpass/internal/service"
)

// UploadHandler handles workbook import endpoints.
type UploadHandler struct {
	importService service.ImportService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(importService service.ImportService) *UploadHandler {
	return &UploadHandler{importService: importService}
}

// Import handles POST /api/v1/uploads
// @Summary Import a workbook
// @Description Import an invoice or schedule workbook (xlsx/xlsm). The upload lands staged; rows become audit-eligible only after confirmation.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook to import"
// @Param kind formData string true "Workbook kind: invoice or schedule"
// @Success 201 {object} APIResponse{data=domain.Upload}
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Import(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	kind := domain.UploadKind(c.PostForm("kind"))
	if kind != domain.UploadKindInvoice && kind != domain.UploadKindSchedule {
		RespondError(c, http.StatusBadRequest, "INVALID_KIND", "kind must be invoice or schedule")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	upload, err := h.importService.ImportWorkbook(c.Request.Context(), service.ImportInput{
		Kind:       kind,
		UploadedBy: userID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, upload)
}

// Confirm handles POST /api/v1/uploads/:id/confirm
func (h *UploadHandler) Confirm(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload id")
		return
	}

	upload, err := h.importService.ConfirmUpload(c.Request.Context(), uploadID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, upload)
}

// Get handles GET /api/v1/uploads/:id
// Discard handles DELETE /api/v1/uploads/:id
func (h *UploadHandler) Discard(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload id")
		return
	}

	if err := h.importService.DiscardUpload(c.Request.Context(), uploadID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"discarded": true})
}

// ScheduleEntries handles GET /api/v1/uploads/:id/entries
func (h *UploadHandler) ScheduleEntries(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload id")
		return
	}

	entries, err := h.importService.ListScheduleEntries(c.Request.Context(), uploadID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, entries)
}

func (h *UploadHandler) Get(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload id")
		return
	}

	upload, err := h.importService.GetUpload(c.Request.Context(), uploadID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, upload)
}

// List handles GET /api/v1/uploads?kind=invoice
func (h *UploadHandler) List(c *gin.Context) {
	kind := domain.UploadKind(c.DefaultQuery("kind", string(domain.UploadKindInvoice)))
	if kind != domain.UploadKindInvoice && kind != domain.UploadKindSchedule {
		RespondError(c, http.StatusBadRequest, "INVALID_KIND", "kind must be invoice or schedule")
		return
	}
	offset, limit := parsePagination(c)

	uploads, total, err := h.importService.ListUploads(c.Request.Context(), kind, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, uploads, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Download handles GET /api/v1/uploads/:id/download
func (h *UploadHandler) Download(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload id")
		return
	}

	url, err := h.importService.GetDownloadURL(c.Request.Context(), uploadID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
