package service

import (
	"context"
	"log"
	"sync"
	"time"

	"dockpass/internal/port"
)

// AlertNotifyConfig holds settings for the alert notification worker.
type AlertNotifyConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// AlertNotifyWorker polls for pending mismatch alerts and delivers
// supervisor notifications. Alerts are claimed atomically, so multiple
// instances can run side by side.
type AlertNotifyWorker struct {
	alertRepo   port.MismatchAlertRepository
	invoiceRepo port.InvoiceRepository
	notifier    port.AlertNotifier
	cfg         AlertNotifyConfig
	wg          sync.WaitGroup
}

// NewAlertNotifyWorker creates a new AlertNotifyWorker.
func NewAlertNotifyWorker(
	alertRepo port.MismatchAlertRepository,
	invoiceRepo port.InvoiceRepository,
	notifier port.AlertNotifier,
	cfg AlertNotifyConfig,
) *AlertNotifyWorker {
	return &AlertNotifyWorker{
		alertRepo:   alertRepo,
		invoiceRepo: invoiceRepo,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight deliveries have finished.
func (w *AlertNotifyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("alertNotifyWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("alertNotifyWorker: shutting down, waiting for in-flight deliveries...")
			w.wg.Wait()
			log.Printf("alertNotifyWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			alerts, err := w.alertRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("alertNotifyWorker: ClaimPending error: %v", err)
				continue
			}

			for i := range alerts {
				alert := alerts[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Independent of the poll context so in-flight
					// deliveries complete even during shutdown.
					notifyCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
					defer cancel()

					inv, err := w.invoiceRepo.GetByID(notifyCtx, alert.InvoiceID)
					if err != nil {
						log.Printf("alertNotifyWorker: loading invoice %s for alert %s: %v",
							alert.InvoiceID, alert.ID, err)
						_ = w.alertRepo.MarkNotifyFailed(notifyCtx, alert.ID, w.cfg.MaxRetries)
						return
					}

					if err := w.notifier.NotifyMismatch(notifyCtx, &alert, inv); err != nil {
						log.Printf("alertNotifyWorker: delivery failed for alert %s (attempt %d): %v",
							alert.ID, alert.NotifyAttempts, err)
						_ = w.alertRepo.MarkNotifyFailed(notifyCtx, alert.ID, w.cfg.MaxRetries)
						return
					}

					if err := w.alertRepo.MarkNotified(notifyCtx, alert.ID); err != nil {
						log.Printf("alertNotifyWorker: marking alert %s notified: %v", alert.ID, err)
					}
				}()
			}
		}
	}
}
