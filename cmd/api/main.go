package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/config"
	"github.com/krishisethu/pos-api/internal/infrastructure/cache"
	"github.com/krishisethu/pos-api/internal/infrastructure/database"
	"github.com/krishisethu/pos-api/internal/infrastructure/offline"
	"github.com/krishisethu/pos-api/internal/infrastructure/repository"
	"github.com/krishisethu/pos-api/internal/presentation/http/handler"
	"github.com/krishisethu/pos-api/internal/presentation/http/routes"
	"github.com/krishisethu/pos-api/pkg/email"
	"github.com/krishisethu/pos-api/pkg/oauth"
	"github.com/krishisethu/pos-api/pkg/printer"
	"github.com/krishisethu/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Open the local offline queue store
	if err := os.MkdirAll(filepath.Dir(cfg.Offline.StorePath), 0o755); err != nil {
		log.Fatalf("Failed to create offline store directory: %v", err)
	}
	offlineStore, err := offline.NewStore(cfg.Offline.StorePath)
	if err != nil {
		log.Fatalf("Failed to open offline store: %v", err)
	}
	defer offlineStore.Close()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// In-memory stock cache keeps checkout working when the database is down
	stockCache := cache.NewStockCache()

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// ping reports primary database reachability for the sync loop
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	ping := func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuthService)
	productService := service.NewProductService(productRepo, categoryRepo, stockCache)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo, saleRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, offlineStore, stockCache)
	syncService := service.NewSyncService(offlineStore, saleRepo, productRepo, customerRepo, ping, cfg.Sync.Interval)
	reportService := service.NewReportService(reportRepo, productRepo)
	dashboardService := service.NewDashboardService(saleRepo, productRepo, customerRepo, reportRepo, settingsRepo, syncService)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo)

	// Warm the stock cache so offline checkout has prices and quantities
	if err := productService.WarmStockCache(context.Background()); err != nil {
		log.Printf("Warning: Failed to warm stock cache: %v", err)
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, saleRepo, settingsRepo, emailService, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Customer:  handler.NewCustomerHandler(customerService),
		Sale:      handler.NewSaleHandler(saleService),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(printerService),
		Sync:      handler.NewSyncHandler(syncService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Background drain of the offline queue
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go syncService.Run(ctx)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}
