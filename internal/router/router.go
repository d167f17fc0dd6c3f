package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quotely/docs"
	"quotely/internal/domain"
	"quotely/internal/handler"
	"quotely/internal/middleware"
	"quotely/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Client    *handler.ClientHandler
	Item      *handler.ItemHandler
	Quotation *handler.QuotationHandler
	Invoice   *handler.InvoiceHandler
	Preview   *handler.PreviewHandler
	Stats     *handler.StatsHandler
	Settings  *handler.SettingsHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	protected.GET("/auth/me", h.Auth.Me)

	users := protected.Group("/users")
	users.POST("", adminOnly, h.User.Create)
	users.GET("", adminOnly, h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)

	clients := protected.Group("/clients")
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	items := protected.Group("/items")
	items.POST("", h.Item.Create)
	items.POST("/import", h.Item.Import)
	items.GET("", h.Item.List)
	items.GET("/:id", h.Item.GetByID)
	items.PUT("/:id", h.Item.Update)
	items.DELETE("/:id", h.Item.Delete)

	quotations := protected.Group("/quotations")
	quotations.POST("", h.Quotation.Create)
	quotations.GET("", h.Quotation.List)
	quotations.GET("/export", h.Quotation.Export)
	quotations.GET("/:id", h.Quotation.GetByID)
	quotations.PUT("/:id", h.Quotation.Update)
	quotations.PATCH("/:id/status", h.Quotation.UpdateStatus)
	quotations.DELETE("/:id", h.Quotation.Delete)
	quotations.GET("/:id/pdf", h.Quotation.PDF)
	quotations.POST("/:id/send", h.Quotation.Send)

	invoices := protected.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/export", h.Invoice.Export)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PATCH("/:id/payment", h.Invoice.UpdatePayment)
	invoices.GET("/:id/payments", h.Invoice.ListPayments)
	invoices.POST("/:id/payments", h.Invoice.RecordPayment)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.GET("/:id/pdf", h.Invoice.PDF)
	invoices.POST("/:id/send", h.Invoice.Send)

	protected.POST("/documents/preview", h.Preview.Preview)
	protected.GET("/stats", h.Stats.GetStats)

	settings := protected.Group("/settings")
	settings.GET("/company", h.Settings.Get)
	settings.PUT("/company", adminOnly, h.Settings.Update)

	return r
}
