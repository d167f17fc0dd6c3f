package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"quotely/internal/config"
	"quotely/internal/domain"
	"quotely/internal/email/noop"
	"quotely/internal/email/ses"
	"quotely/internal/handler"
	"quotely/internal/port"
	"quotely/internal/repository/postgres"
	"quotely/internal/router"
	"quotely/internal/service"
	s3storage "quotely/internal/storage/s3"
)

// @title Quotely API
// @version 1.0
// @description Quotations, invoices and payments for a small trading business.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

const shutdownTimeout = 15 * time.Second

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
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	itemRepo := postgres.NewItemRepo(db)
	quotationRepo := postgres.NewQuotationRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	settingsRepo := postgres.NewCompanySettingsRepo(db)
	documentStore := postgres.NewDocumentStore(db)

	// Initialize storage and email
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	emailSender, err := newEmailSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	coordinator := service.NewDocumentCoordinator(documentStore, cfg.Numbering.Scope, time.Now)
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	clientSvc := service.NewClientService(clientRepo)
	itemSvc := service.NewItemService(itemRepo)
	quotationSvc := service.NewQuotationService(quotationRepo, coordinator)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, coordinator)
	previewSvc := service.NewPreviewService(itemRepo)
	statsSvc := service.NewStatsService(statsRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, cfg.Company)
	exportSvc := service.NewExportService(quotationRepo, invoiceRepo, settingsSvc, coordinator, s3Client, emailSender, cfg.S3)

	if err := bootstrapAdmin(userSvc, cfg.Bootstrap); err != nil {
		return err
	}

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, userSvc),
		User:      handler.NewUserHandler(userSvc),
		Client:    handler.NewClientHandler(clientSvc),
		Item:      handler.NewItemHandler(itemSvc),
		Quotation: handler.NewQuotationHandler(quotationSvc, exportSvc),
		Invoice:   handler.NewInvoiceHandler(invoiceSvc, exportSvc),
		Preview:   handler.NewPreviewHandler(previewSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Settings:  handler.NewSettingsHandler(settingsSvc),
		Health:    handler.NewHealthHandler(db),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (numbering scope: %s)", cfg.Server.Port, cfg.Numbering.Scope)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newEmailSender(cfg config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	case "", "noop":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// bootstrapAdmin creates the configured admin account when no admin exists.
func bootstrapAdmin(users service.UserService, cfg config.BootstrapConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := users.EnsureAdmin(ctx, service.CreateUserInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		FullName: cfg.AdminName,
	})
	if errors.Is(err, domain.ErrInvalidInput) {
		log.Printf("WARN: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if user != nil {
		log.Printf("Bootstrap admin ready: %s", user.Email)
	}
	return nil
}
