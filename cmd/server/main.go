package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"dockpass/internal/config"
	"dockpass/internal/handler"
	"dockpass/internal/notify/noop"
	"dockpass/internal/notify/ses"
	"dockpass/internal/port"
	"dockpass/internal/repository/postgres"
	"dockpass/internal/router"
	"dockpass/internal/service"
	s3storage "dockpass/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	uploadRepo := postgres.NewUploadRepo(db)
	scheduleRepo := postgres.NewScheduleRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	alertRepo := postgres.NewAlertRepo(db)
	gatepassRepo := postgres.NewGatepassRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the supervisor notifier
	var notifier port.AlertNotifier
	switch cfg.Notify.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(cfg.Notify.Region, cfg.Notify.FromAddress,
			cfg.Notify.FromName, cfg.Notify.SupervisorAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNoopNotifier()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	importSvc := service.NewImportService(uploadRepo, invoiceRepo, scheduleRepo, s3Client, &cfg.S3)
	auditSvc := service.NewAuditService(invoiceRepo, scheduleRepo, alertRepo)
	dispatchSvc := service.NewDispatchService(invoiceRepo, gatepassRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)
	alertSvc := service.NewAlertService(alertRepo)
	reportSvc := service.NewReportService(invoiceRepo, alertRepo)
	statsSvc := service.NewStatsService(statsRepo)
	userSvc := service.NewUserService(userRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, userSvc)
	uploadH := handler.NewUploadHandler(importSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, auditSvc)
	auditH := handler.NewAuditHandler(auditSvc)
	dispatchH := handler.NewDispatchHandler(dispatchSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	reportH := handler.NewReportHandler(reportSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Start the alert notification worker; it stops on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewAlertNotifyWorker(alertRepo, invoiceRepo, notifier, service.AlertNotifyConfig{
		PollInterval: time.Duration(cfg.Alerts.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Alerts.MaxRetries,
		Concurrency:  cfg.Alerts.Concurrency,
	})
	go worker.Start(ctx)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, uploadH, invoiceH, auditH,
		dispatchH, alertH, reportH, statsH, userH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
