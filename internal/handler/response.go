package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dockpass/internal/domain"
	"dockpass/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: xlsx, xlsm"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrWorkbookUnreadable):
		return http.StatusBadRequest, "WORKBOOK_UNREADABLE", "workbook could not be read"
	case errors.Is(err, domain.ErrUploadHasErrors):
		return http.StatusConflict, "UPLOAD_HAS_ERRORS", "upload has error rows and cannot be confirmed; fix the sheet and re-import"
	case errors.Is(err, domain.ErrUploadNotStaged):
		return http.StatusConflict, "UPLOAD_NOT_STAGED", "upload is not in staged state"
	case errors.Is(err, domain.ErrDuplicateInvoiceNo):
		return http.StatusConflict, "DUPLICATE_INVOICE_NO", "invoice number already imported"
	case errors.Is(err, domain.ErrScheduleMissing):
		return http.StatusConflict, "SCHEDULE_MISSING", "no confirmed delivery schedule is loaded"
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusConflict, "NO_ACTIVE_SESSION", "no active audit session; start one from a filter selection"
	case errors.Is(err, domain.ErrUnknownLabel):
		return http.StatusBadRequest, "UNKNOWN_LABEL", "source label must be customer or internal"
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest, "EMPTY_SELECTION", "selection matched no invoices"
	case errors.Is(err, domain.ErrInvoiceBlocked):
		return http.StatusConflict, "INVOICE_BLOCKED", "invoice is blocked pending supervisor review"
	case errors.Is(err, domain.ErrInvoiceNotBlocked):
		return http.StatusConflict, "INVOICE_NOT_BLOCKED", "invoice is not blocked"
	case errors.Is(err, domain.ErrInvoiceDispatched):
		return http.StatusConflict, "INVOICE_DISPATCHED", "invoice has already been dispatched"
	case errors.Is(err, domain.ErrInvoiceNotEligible):
		return http.StatusConflict, "INVOICE_NOT_ELIGIBLE", "invoice is not eligible for this operation"
	case errors.Is(err, domain.ErrDuplicateScan):
		return http.StatusConflict, "DUPLICATE_SCAN", "item already scanned for this invoice"
	case errors.Is(err, domain.ErrNoUnscannedItems):
		return http.StatusConflict, "NO_UNSCANNED_ITEMS", "no unscanned items remain in the selected invoices"
	case errors.Is(err, domain.ErrAuditIncomplete):
		return http.StatusConflict, "AUDIT_INCOMPLETE", "scanned count has not reached the expected item count"
	case errors.Is(err, domain.ErrAuditNotComplete):
		return http.StatusConflict, "AUDIT_NOT_COMPLETE", "invoice audit is not complete"
	case errors.Is(err, domain.ErrMixedCustomers):
		return http.StatusBadRequest, "MIXED_CUSTOMERS", "selected invoices belong to different customers"
	case errors.Is(err, domain.ErrItemNotExpected):
		return http.StatusConflict, "ITEM_NOT_EXPECTED", "scanned item is not among the validated items for this load"
	case errors.Is(err, domain.ErrAlreadyLoaded):
		return http.StatusConflict, "ALREADY_LOADED", "item already loaded for this dispatch"
	case errors.Is(err, domain.ErrLoadIncomplete):
		return http.StatusConflict, "LOAD_INCOMPLETE", "not all validated items have been loaded"
	case errors.Is(err, domain.ErrVehicleRequired):
		return http.StatusBadRequest, "VEHICLE_REQUIRED", "vehicle number is required"
	case errors.Is(err, domain.ErrNoDispatchBatch):
		return http.StatusConflict, "NO_DISPATCH_BATCH", "no active dispatch batch; start one from the needs-dispatch view"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return userID, role, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
