package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	dayStart := time.Now().Truncate(24 * time.Hour)

	var counts domain.DashboardCounts
	err := r.db.GetContext(ctx, &counts, `
		SELECT
			COUNT(*) FILTER (WHERE i.dispatched_at IS NULL AND NOT i.audit_complete AND NOT i.blocked) AS pending_audit,
			COUNT(*) FILTER (WHERE i.dispatched_at IS NULL AND i.blocked)                              AS blocked,
			COUNT(*) FILTER (WHERE i.dispatched_at IS NULL AND i.audit_complete AND NOT i.blocked)     AS ready_to_dispatch,
			COUNT(*) FILTER (WHERE i.dispatched_at >= $1)                                              AS dispatched_today,
			(SELECT COUNT(*) FROM mismatch_alerts WHERE notify_status = $2)                            AS open_alerts
		FROM invoices i
		JOIN uploads u ON u.id = i.upload_id
		WHERE u.status = $3`,
		dayStart, domain.NotifyStatusPending, domain.UploadStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.DashboardCounts: %w", err)
	}
	return &counts, nil
}
