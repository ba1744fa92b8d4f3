package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"finoffice-backend/internal/auth"
	"finoffice-backend/internal/cache"
	"finoffice-backend/internal/config"
	"finoffice-backend/internal/database"
	"finoffice-backend/internal/db"
	"finoffice-backend/internal/handlers"
	h "finoffice-backend/internal/http"
	"finoffice-backend/internal/middleware"
	"finoffice-backend/internal/monitoring"
	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"
	"finoffice-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(pool)
	entryRepo := repositories.NewEntryRepository(pool)
	completedClientRepo := repositories.NewCompletedClientRepository(pool)
	insightRepo := repositories.NewFinancialInsightRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)

	// Event hub for the live monitoring feed
	hub := monitoring.NewHub()
	go hub.Run()

	// Initialize services
	accountService := services.NewAccountService(accountRepo, jwtManager)
	entryService := services.NewEntryService(entryRepo, hub)
	totpService := services.NewTOTPService(accountRepo)
	reportService := services.NewReportService(entryRepo, completedClientRepo, accountRepo)

	// AI narration is optional; without an API key the endpoint reports a
	// configuration error instead of failing at startup.
	var generator handlers.TextGenerator
	aiService, err := services.NewAIService(cfg)
	if err != nil {
		log.Printf("[AI] %v (narration endpoint disabled)", err)
	} else {
		generator = aiService
	}

	// Object storage for entry images
	objectStore, err := storage.NewS3Store(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, totpService, loginLogRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, accountRepo)
	accountHandler := handlers.NewAccountHandler(accountService)
	entryHandler := handlers.NewEntryHandler(entryService)
	completedClientHandler := handlers.NewCompletedClientHandler(completedClientRepo)
	insightHandler := handlers.NewInsightHandler(insightRepo)
	aiHandler := handlers.NewAIHandler(generator)
	uploadHandler := handlers.NewUploadHandler(objectStore)
	reportHandler := handlers.NewReportHandler(reportService)
	monitoringHandler := handlers.NewMonitoringHandler(hub, pool, jwtManager)
	loginLogHandler := handlers.NewLoginLogHandler(loginLogRepo)
	healthHandler := handlers.NewHealthHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, accountRepo)

	router := h.NewRouter(
		authHandler,
		totpHandler,
		accountHandler,
		entryHandler,
		completedClientHandler,
		insightHandler,
		aiHandler,
		uploadHandler,
		reportHandler,
		monitoringHandler,
		loginLogHandler,
		healthHandler,
		authMiddleware,
	)

	// Middleware chain: CORS -> panic recovery -> request log -> metrics
	handler := middleware.NewCORS(cfg)(
		middleware.PanicRecovery(
			middleware.RequestLogging(
				middleware.MetricsMiddleware(router),
			),
		),
	)

	// No write timeout: the monitoring feed holds websocket connections open.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
