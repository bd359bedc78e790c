package domain

// DashboardCounts are the floor dashboard aggregates.
type DashboardCounts struct {
	PendingAudit    int `db:"pending_audit" json:"pending_audit"`
	Blocked         int `db:"blocked" json:"blocked"`
	ReadyToDispatch int `db:"ready_to_dispatch" json:"ready_to_dispatch"`
	DispatchedToday int `db:"dispatched_today" json:"dispatched_today"`
	OpenAlerts      int `db:"open_alerts" json:"open_alerts"`
}
