package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated plant user (operator, supervisor or admin).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Upload stores metadata about one imported workbook (invoice set or
// delivery schedule). Rows from a staged upload are not audit-eligible
// until the upload is confirmed, and confirmation is denied while the
// upload still has error rows.
type Upload struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Kind         UploadKind   `db:"kind" json:"kind"`
	FileName     string       `db:"file_name" json:"file_name"`
	OriginalName string       `db:"original_name" json:"original_name"`
	FileSize     int64        `db:"file_size" json:"file_size"`
	ContentType  string       `db:"content_type" json:"content_type"`
	S3Bucket     string       `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string       `db:"s3_key" json:"s3_key"`
	RowCount     int          `db:"row_count" json:"row_count"`
	ErrorCount   int          `db:"error_count" json:"error_count"`
	Status       UploadStatus `db:"status" json:"status"`
	UploadedBy   uuid.UUID    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ScheduleEntry is one row of a delivery schedule. Entries are immutable
// after import; multiple entries may share a customer code.
type ScheduleEntry struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UploadID          uuid.UUID  `db:"upload_id" json:"upload_id"`
	CustomerCode      string     `db:"customer_code" json:"customer_code"`
	PartNumber        string     `db:"part_number" json:"part_number"`
	DeliveryDate      *time.Time `db:"delivery_date" json:"delivery_date"`
	DeliveryTime      string     `db:"delivery_time" json:"delivery_time"`
	UnloadingLocation string     `db:"unloading_location" json:"unloading_location"`
	SheetOrigin       string     `db:"sheet_origin" json:"sheet_origin"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Invoice is the central audited aggregate. ScannedCount and AuditComplete
// are mutated only through the audit flow, Blocked/BlockedAt only by a scan
// mismatch (cleared by an admin unblock), and the Dispatched* fields only
// at gatepass issuance, after which the invoice leaves every audit and
// dispatch view.
type Invoice struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UploadID      uuid.UUID  `db:"upload_id" json:"upload_id"`
	InvoiceNo     string     `db:"invoice_no" json:"invoice_no"`
	CustomerName  string     `db:"customer_name" json:"customer_name"`
	CustomerCode  string     `db:"customer_code" json:"customer_code"`
	TotalQuantity int        `db:"total_quantity" json:"total_quantity"`
	ScannedCount  int        `db:"scanned_count" json:"scanned_count"`
	AuditComplete bool       `db:"audit_complete" json:"audit_complete"`
	AuditDate     *time.Time `db:"audit_date" json:"audit_date"`
	Blocked       bool       `db:"blocked" json:"blocked"`
	BlockedAt     *time.Time `db:"blocked_at" json:"blocked_at"`
	DeliveryDate  *time.Time `db:"delivery_date" json:"delivery_date"`
	DeliveryTime  string     `db:"delivery_time" json:"delivery_time"`
	Location      string     `db:"location" json:"location"`
	VehicleNumber string     `db:"vehicle_number" json:"vehicle_number"`
	DispatchedBy  *uuid.UUID `db:"dispatched_by" json:"dispatched_by"`
	DispatchedAt  *time.Time `db:"dispatched_at" json:"dispatched_at"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	// Loaded by the repository, not stored on the invoices row itself.
	Items     []InvoiceLineItem `db:"-" json:"items,omitempty"`
	Validated []ValidatedItem   `db:"-" json:"validated,omitempty"`
}

// InvoiceLineItem is one line of an imported invoice. MatchStatus is
// recomputed against the schedule exactly once when both an invoice set
// and a schedule are present; error/warning lines keep their status.
type InvoiceLineItem struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	InvoiceID        uuid.UUID   `db:"invoice_id" json:"invoice_id"`
	LineNo           int         `db:"line_no" json:"line_no"`
	CustomerItemCode string      `db:"customer_item_code" json:"customer_item_code"`
	InternalPartCode string      `db:"internal_part_code" json:"internal_part_code"`
	Quantity         int         `db:"quantity" json:"quantity"`
	Description      string      `db:"description" json:"description"`
	MatchStatus      MatchStatus `db:"match_status" json:"match_status"`
	RowError         string      `db:"row_error" json:"row_error"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
}

// ValidatedItem records one audited customer item on an invoice: the result
// of a successful customer-then-internal scan pair. Quantity comes from the
// invoice data, never from the barcode payload. LoadedBy/LoadedAt are
// stamped by the dispatch load scan.
type ValidatedItem struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	InvoiceID        uuid.UUID  `db:"invoice_id" json:"invoice_id"`
	LineItemID       uuid.UUID  `db:"line_item_id" json:"line_item_id"`
	CustomerItemCode string     `db:"customer_item_code" json:"customer_item_code"`
	Quantity         int        `db:"quantity" json:"quantity"`
	ScannedBy        uuid.UUID  `db:"scanned_by" json:"scanned_by"`
	ScannedAt        time.Time  `db:"scanned_at" json:"scanned_at"`
	LoadedBy         *uuid.UUID `db:"loaded_by" json:"loaded_by"`
	LoadedAt         *time.Time `db:"loaded_at" json:"loaded_at"`
}

// ScanEvent is one barcode read from the scanning collaborator. It is
// ephemeral: it exists only inside a scan-pair interaction and is never
// persisted on its own.
type ScanEvent struct {
	SourceLabel LabelSource `json:"source_label"`
	RawValue    string      `json:"raw_value"`
	PartCode    string      `json:"part_code"`
	Quantity    string      `json:"quantity"`
	BinNumber   string      `json:"bin_number"`
	Timestamp   time.Time   `json:"timestamp"`
}

// MismatchAlert is the append-only audit trail entry created when a scan
// pair resolves to mismatch. NotifyStatus drives the supervisor
// notification worker.
type MismatchAlert struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	InvoiceID      uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	CustomerScan   json.RawMessage `db:"customer_scan" json:"customer_scan"`
	InternalScan   json.RawMessage `db:"internal_scan" json:"internal_scan"`
	Step           string          `db:"step" json:"step"`
	NotifyStatus   NotifyStatus    `db:"notify_status" json:"notify_status"`
	NotifyAttempts int             `db:"notify_attempts" json:"notify_attempts"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Gatepass authorizes a loaded vehicle to exit the facility. ItemSummary
// is the structured payload handed to the external document/QR renderer.
type Gatepass struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	GatepassNo    string          `db:"gatepass_no" json:"gatepass_no"`
	VehicleNumber string          `db:"vehicle_number" json:"vehicle_number"`
	AuthorizedBy  uuid.UUID       `db:"authorized_by" json:"authorized_by"`
	ItemSummary   json.RawMessage `db:"item_summary" json:"item_summary"`
	IssuedAt      time.Time       `db:"issued_at" json:"issued_at"`

	InvoiceIDs []uuid.UUID `db:"-" json:"invoice_ids,omitempty"`
}
