package port

import (
	"context"

	"dockpass/internal/domain"
)

// AlertNotifier delivers the delayed supervisor-approval notification for
// a mismatch alert. The immediate operator notification is the synchronous
// scan response; this one travels out of band.
type AlertNotifier interface {
	NotifyMismatch(ctx context.Context, alert *domain.MismatchAlert, inv *domain.Invoice) error
}
