package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) CreateBatch(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateBatch begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	invQuery := `INSERT INTO invoices (
		id, upload_id, invoice_no, customer_name, customer_code,
		total_quantity, scanned_count, audit_complete, blocked,
		delivery_date, delivery_time, location, vehicle_number,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	itemQuery := `INSERT INTO invoice_line_items (
		id, invoice_id, line_no, customer_item_code, internal_part_code,
		quantity, description, match_status, row_error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	for _, inv := range invoices {
		inv.CreatedAt = now
		inv.UpdatedAt = now
		_, err = tx.ExecContext(ctx, invQuery,
			inv.ID, inv.UploadID, inv.InvoiceNo, inv.CustomerName, inv.CustomerCode,
			inv.TotalQuantity, inv.ScannedCount, inv.AuditComplete, inv.Blocked,
			inv.DeliveryDate, inv.DeliveryTime, inv.Location, inv.VehicleNumber,
			inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "invoice_no") {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateInvoiceNo, inv.InvoiceNo)
			}
			return fmt.Errorf("invoiceRepo.CreateBatch invoice: %w", err)
		}

		for i := range inv.Items {
			item := &inv.Items[i]
			item.CreatedAt = now
			_, err = tx.ExecContext(ctx, itemQuery,
				item.ID, item.InvoiceID, item.LineNo, item.CustomerItemCode,
				item.InternalPartCode, item.Quantity, item.Description,
				item.MatchStatus, item.RowError, item.CreatedAt)
			if err != nil {
				return fmt.Errorf("invoiceRepo.CreateBatch item: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	if err := r.loadChildren(ctx, []*domain.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]*domain.Invoice, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM invoices WHERE id IN (?)", invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByIDs in: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []domain.Invoice
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByIDs: %w", err)
	}
	if len(rows) != len(invoiceIDs) {
		return nil, domain.ErrNotFound
	}

	// Preserve the caller's ordering; IN() does not.
	byID := make(map[uuid.UUID]*domain.Invoice, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]*domain.Invoice, 0, len(invoiceIDs))
	for _, id := range invoiceIDs {
		inv, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		out = append(out, inv)
	}

	if err := r.loadChildren(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns undispatched invoices from confirmed uploads, with
// line items and validated items loaded.
func (r *invoiceRepo) ListActive(ctx context.Context) ([]*domain.Invoice, error) {
	var rows []domain.Invoice
	err := r.db.SelectContext(ctx, &rows,
		`SELECT i.* FROM invoices i
		 JOIN uploads u ON u.id = i.upload_id
		 WHERE u.status = $1 AND i.dispatched_at IS NULL
		 ORDER BY i.invoice_no`, domain.UploadStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListActive: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *invoiceRepo) ListByView(ctx context.Context, view domain.InvoiceView, offset, limit int) ([]*domain.Invoice, int, error) {
	where := "u.status = '" + string(domain.UploadStatusConfirmed) + "'"
	switch view {
	case domain.ViewNeedsAudit:
		where += " AND i.dispatched_at IS NULL AND NOT i.audit_complete AND NOT i.blocked"
	case domain.ViewNeedsDispatch:
		where += " AND i.dispatched_at IS NULL AND i.audit_complete AND NOT i.blocked"
	case domain.ViewBlocked:
		where += " AND i.dispatched_at IS NULL AND i.blocked"
	case domain.ViewDispatched:
		where += " AND i.dispatched_at IS NOT NULL"
	default:
		return nil, 0, fmt.Errorf("invoiceRepo.ListByView: unknown view %q", view)
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices i JOIN uploads u ON u.id = i.upload_id WHERE "+where)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByView count: %w", err)
	}

	var rows []domain.Invoice
	err = r.db.SelectContext(ctx, &rows,
		`SELECT i.* FROM invoices i JOIN uploads u ON u.id = i.upload_id
		 WHERE `+where+` ORDER BY i.invoice_no LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByView: %w", err)
	}

	out, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *invoiceRepo) UpdateMatchStatuses(ctx context.Context, items []domain.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateMatchStatuses begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			"UPDATE invoice_line_items SET match_status = $1 WHERE id = $2",
			item.MatchStatus, item.ID)
		if err != nil {
			return fmt.Errorf("invoiceRepo.UpdateMatchStatuses: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.UpdateMatchStatuses commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) DeleteByUpload(ctx context.Context, uploadID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE upload_id = $1 AND dispatched_at IS NULL", uploadID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.DeleteByUpload: %w", err)
	}
	return nil
}

func (r *invoiceRepo) AddValidatedItem(ctx context.Context, item *domain.ValidatedItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.AddValidatedItem begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Guarded increment first: a blocked, dispatched or missing invoice
	// affects zero rows and the insert never happens.
	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET scanned_count = scanned_count + 1, updated_at = $1
		 WHERE id = $2 AND NOT blocked AND dispatched_at IS NULL`,
		time.Now().UTC(), item.InvoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.AddValidatedItem increment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.AddValidatedItem rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrInvoiceNotEligible
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO validated_items (
			id, invoice_id, line_item_id, customer_item_code, quantity,
			scanned_by, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.InvoiceID, item.LineItemID, item.CustomerItemCode,
		item.Quantity, item.ScannedBy, item.ScannedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateScan
		}
		return fmt.Errorf("invoiceRepo.AddValidatedItem insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.AddValidatedItem commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Block(ctx context.Context, invoiceID uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET blocked = TRUE, blocked_at = $1, updated_at = $2
		 WHERE id = $3 AND NOT blocked`,
		at, time.Now().UTC(), invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Block: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Unblock(ctx context.Context, invoiceID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET blocked = FALSE, blocked_at = NULL, updated_at = $1
		 WHERE id = $2 AND blocked`,
		time.Now().UTC(), invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Unblock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.Unblock rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrInvoiceNotBlocked
	}
	return nil
}

func (r *invoiceRepo) CompleteAudit(ctx context.Context, invoiceID uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET audit_complete = TRUE, audit_date = $1, updated_at = $2
		 WHERE id = $3 AND NOT audit_complete AND NOT blocked AND dispatched_at IS NULL`,
		at, time.Now().UTC(), invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CompleteAudit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.CompleteAudit rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrInvoiceNotEligible
	}
	return nil
}

func (r *invoiceRepo) MarkLoaded(ctx context.Context, validatedItemID, loadedBy uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE validated_items SET loaded_by = $1, loaded_at = $2
		 WHERE id = $3 AND loaded_at IS NULL`,
		loadedBy, at, validatedItemID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkLoaded: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkLoaded rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadyLoaded
	}
	return nil
}

func (r *invoiceRepo) StampDispatched(ctx context.Context, invoiceIDs []uuid.UUID, vehicleNumber string, dispatchedBy uuid.UUID, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.StampDispatched begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range invoiceIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE invoices SET vehicle_number = $1, dispatched_by = $2,
				dispatched_at = $3, updated_at = $4
			 WHERE id = $5 AND audit_complete AND NOT blocked AND dispatched_at IS NULL`,
			vehicleNumber, dispatchedBy, at, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("invoiceRepo.StampDispatched: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("invoiceRepo.StampDispatched rows: %w", err)
		}
		if rows == 0 {
			return domain.ErrInvoiceNotEligible
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.StampDispatched commit: %w", err)
	}
	return nil
}

// collect converts rows to pointers and loads their children.
func (r *invoiceRepo) collect(ctx context.Context, rows []domain.Invoice) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	if err := r.loadChildren(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadChildren fills Items and Validated for the given invoices with two
// batched queries.
func (r *invoiceRepo) loadChildren(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(invoices))
	byID := make(map[uuid.UUID]*domain.Invoice, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
		byID[inv.ID] = inv
	}

	query, args, err := sqlx.In(
		"SELECT * FROM invoice_line_items WHERE invoice_id IN (?) ORDER BY line_no", ids)
	if err != nil {
		return fmt.Errorf("invoiceRepo.loadChildren items in: %w", err)
	}
	var items []domain.InvoiceLineItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("invoiceRepo.loadChildren items: %w", err)
	}
	for _, item := range items {
		inv := byID[item.InvoiceID]
		inv.Items = append(inv.Items, item)
	}

	query, args, err = sqlx.In(
		"SELECT * FROM validated_items WHERE invoice_id IN (?) ORDER BY scanned_at", ids)
	if err != nil {
		return fmt.Errorf("invoiceRepo.loadChildren validated in: %w", err)
	}
	var validated []domain.ValidatedItem
	if err := r.db.SelectContext(ctx, &validated, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("invoiceRepo.loadChildren validated: %w", err)
	}
	for _, v := range validated {
		inv := byID[v.InvoiceID]
		inv.Validated = append(inv.Validated, v)
	}
	return nil
}
