package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"billing-backend/internal/auth"
	"billing-backend/internal/cache"
	"billing-backend/internal/config"
	"billing-backend/internal/database"
	"billing-backend/internal/handlers"
	"billing-backend/internal/health"
	apphttp "billing-backend/internal/http"
	"billing-backend/internal/live"
	"billing-backend/internal/middleware"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
	"billing-backend/internal/services"
	"billing-backend/internal/storage"
	"billing-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	timeutil.SetZone(cfg.Server.Timezone)

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.NewMigrator(pool, "migrations").Run(ctx); err != nil {
		cancel()
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	taxRepo := repositories.NewTaxRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)

	// The tax policy must exist before the first invoice.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = taxRepo.Bootstrap(bootCtx, &models.Tax{
		Rate:      decimal.NewFromFloat(5.0),
		Threshold: decimal.NewFromFloat(50.0),
	})
	bootCancel()
	if err != nil {
		log.Fatalf("tax bootstrap failed: %v", err)
	}

	var uploader services.Uploader
	if cfg.Uploads.Bucket != "" {
		s3up, err := storage.NewS3(context.Background(), cfg)
		if err != nil {
			log.Fatalf("object storage init failed: %v", err)
		}
		uploader = s3up
		log.Printf("[Storage] Using bucket %s", cfg.Uploads.Bucket)
	} else {
		local, err := storage.NewLocal(cfg.Uploads.Dir)
		if err != nil {
			log.Fatalf("uploads directory init failed: %v", err)
		}
		uploader = local
		log.Printf("[Storage] Using local directory %s", cfg.Uploads.Dir)
	}

	hub := live.NewHub()
	jwtManager := auth.NewJWTManager(cfg)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	productService := services.NewProductService(productRepo, uploader)
	supplierService := services.NewSupplierService(supplierRepo)
	taxService := services.NewTaxService(taxRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, productRepo, customerRepo, taxService, hub)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	productHandler := handlers.NewProductHandler(productService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	taxHandler := handlers.NewTaxHandler(taxService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := apphttp.NewRouter(
		authHandler,
		customerHandler,
		productHandler,
		supplierHandler,
		taxHandler,
		invoiceHandler,
		healthHandler,
		hub,
		authMiddleware,
		cfg.Uploads.Dir,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.Language(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] Listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
