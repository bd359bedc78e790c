package domain

// UserRole defines the plant role hierarchy.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleOperator   UserRole = "operator"
)

// UploadKind distinguishes the two workbook types we import.
type UploadKind string

const (
	UploadKindInvoice  UploadKind = "invoice"
	UploadKindSchedule UploadKind = "schedule"
)

// UploadStatus represents the lifecycle of an imported workbook.
type UploadStatus string

const (
	UploadStatusStaged    UploadStatus = "staged"
	UploadStatusConfirmed UploadStatus = "confirmed"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusDiscarded UploadStatus = "discarded"
)

// MatchStatus classifies an invoice line item against the delivery schedule.
// Error and warning lines are set at import time and never reclassified.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusUnmatched MatchStatus = "unmatched"
	MatchStatusError     MatchStatus = "error"
	MatchStatusWarning   MatchStatus = "warning"
)

// LabelSource identifies which of the two physical labels a scan read.
type LabelSource string

const (
	LabelCustomer LabelSource = "customer"
	LabelInternal LabelSource = "internal"
)

// InvoiceView selects one of the invoice worklist views.
type InvoiceView string

const (
	ViewNeedsAudit    InvoiceView = "needs-audit"
	ViewNeedsDispatch InvoiceView = "needs-dispatch"
	ViewBlocked       InvoiceView = "blocked"
	ViewDispatched    InvoiceView = "dispatched"
)

// AllowedViews maps the view query parameter values accepted by the API.
var AllowedViews = map[string]InvoiceView{
	"needs-audit":    ViewNeedsAudit,
	"needs-dispatch": ViewNeedsDispatch,
	"blocked":        ViewBlocked,
	"dispatched":     ViewDispatched,
}

// NotifyStatus tracks supervisor notification delivery for a mismatch alert.
type NotifyStatus string

const (
	NotifyStatusPending  NotifyStatus = "pending"
	NotifyStatusNotified NotifyStatus = "notified"
	NotifyStatusFailed   NotifyStatus = "failed"
)

// StepDocAudit is the audit step recorded on mismatch alerts.
const StepDocAudit = "doc-audit"

// WorkbookType represents the allowed spreadsheet upload types.
type WorkbookType string

const (
	WorkbookXLSX WorkbookType = "xlsx"
	WorkbookXLSM WorkbookType = "xlsm"
)

// AllowedWorkbookExtensions maps file extensions (without dot) to WorkbookType.
var AllowedWorkbookExtensions = map[string]WorkbookType{
	"xlsx": WorkbookXLSX,
	"xlsm": WorkbookXLSM,
}
