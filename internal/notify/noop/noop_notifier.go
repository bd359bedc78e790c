package noop

import (
	"context"
	"log"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op AlertNotifier that logs mismatch alerts
// to stdout. Used in development and when no provider is configured.
func NewNoopNotifier() port.AlertNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyMismatch(_ context.Context, alert *domain.MismatchAlert, inv *domain.Invoice) error {
	log.Printf("[NOOP NOTIFY] Mismatch alert %s on invoice %s (%s), recorded by user %s",
		alert.ID, inv.InvoiceNo, inv.CustomerName, alert.UserID)
	return nil
}
