package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrWorkbookUnreadable  = errors.New("workbook could not be read")
	ErrUploadHasErrors     = errors.New("upload has error rows and cannot be confirmed")
	ErrUploadNotStaged     = errors.New("upload is not in staged state")
	ErrDuplicateInvoiceNo  = errors.New("invoice number already imported")

	ErrNoActiveSession    = errors.New("no active audit session")
	ErrUnknownLabel       = errors.New("unknown label source")
	ErrEmptySelection     = errors.New("no invoices selected")
	ErrInvoiceBlocked     = errors.New("invoice is blocked pending review")
	ErrInvoiceNotBlocked  = errors.New("invoice is not blocked")
	ErrInvoiceDispatched  = errors.New("invoice has already been dispatched")
	ErrInvoiceNotEligible = errors.New("invoice is not eligible for this operation")
	ErrDuplicateScan      = errors.New("item already scanned for this invoice")
	ErrNoUnscannedItems   = errors.New("no unscanned items remain in the selected invoices")
	ErrAuditIncomplete    = errors.New("scanned count has not reached the expected item count")
	ErrAuditNotComplete   = errors.New("invoice audit is not complete")

	ErrMixedCustomers  = errors.New("selected invoices belong to different customers")
	ErrItemNotExpected = errors.New("scanned item is not among the validated items for this load")
	ErrAlreadyLoaded   = errors.New("item already loaded for this dispatch")
	ErrLoadIncomplete  = errors.New("not all validated items have been loaded")
	ErrVehicleRequired = errors.New("vehicle number is required")
	ErrNoDispatchBatch = errors.New("no active dispatch batch")
	ErrScheduleMissing = errors.New("no confirmed delivery schedule is loaded")
)
