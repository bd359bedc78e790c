package router

import (
	"github.com/gin-gonic/gin"

	"dockpass/internal/config"
	"dockpass/internal/domain"
	"dockpass/internal/handler"
	"dockpass/internal/middleware"
	"dockpass/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	uploadH *handler.UploadHandler,
	invoiceH *handler.InvoiceHandler,
	auditH *handler.AuditHandler,
	dispatchH *handler.DispatchHandler,
	alertH *handler.AlertHandler,
	reportH *handler.ReportHandler,
	statsH *handler.StatsHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/auth/me", authH.Me)

	// Workbook imports: supervisors stage, supervisors confirm
	uploads := protected.Group("/uploads")
	uploads.POST("", middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), uploadH.Import)
	uploads.POST("/:id/confirm", middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), uploadH.Confirm)
	uploads.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor), uploadH.Discard)
	uploads.GET("", uploadH.List)
	uploads.GET("/:id", uploadH.Get)
	uploads.GET("/:id/entries", uploadH.ScheduleEntries)
	uploads.GET("/:id/download", uploadH.Download)

	// Invoice worklists
	invoices := protected.Group("/invoices")
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.Get)
	invoices.GET("/:id/alerts", alertH.ListByInvoice)
	invoices.POST("/:id/complete-audit", invoiceH.CompleteAudit)
	invoices.POST("/:id/unblock", middleware.RequireRole(domain.RoleAdmin), invoiceH.Unblock)

	// Document audit flow
	audit := protected.Group("/audit")
	audit.GET("/filters/customers", auditH.Customers)
	audit.GET("/filters/dates", auditH.Dates)
	audit.GET("/filters/locations", auditH.Locations)
	audit.GET("/filters/times", auditH.Times)
	audit.POST("/selection", auditH.PreviewSelection)
	audit.POST("/session", auditH.StartSession)
	audit.GET("/session", auditH.GetSession)
	audit.DELETE("/session", auditH.EndSession)
	audit.POST("/scan", auditH.Scan)
	audit.DELETE("/scan", auditH.ClearScan)

	// Dispatch flow
	dispatch := protected.Group("/dispatch")
	dispatch.POST("/batch", dispatchH.StartBatch)
	dispatch.GET("/batch", dispatchH.GetBatch)
	dispatch.DELETE("/batch", dispatchH.EndBatch)
	dispatch.POST("/scan", dispatchH.LoadScan)
	dispatch.POST("/gatepass", dispatchH.IssueGatepass)
	dispatch.GET("/gatepasses", dispatchH.ListGatepasses)
	dispatch.GET("/gatepasses/:id", dispatchH.GetGatepass)

	// Alerts, reports, dashboard
	protected.GET("/alerts", alertH.List)
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor))
	reports.GET("/dispatched.csv", reportH.ExportDispatched)
	reports.GET("/alerts.csv", reportH.ExportAlerts)
	protected.GET("/stats/dashboard", statsH.Dashboard)

	// User management
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.Get)

	return r
}
