// Package main is the entry point for the sicakap API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rzkdmln/sicakap/internal/core/clock"
	"github.com/rzkdmln/sicakap/internal/domain/archive"
	"github.com/rzkdmln/sicakap/internal/domain/auth"
	"github.com/rzkdmln/sicakap/internal/domain/numbering"
	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
	"github.com/rzkdmln/sicakap/internal/domain/redaksi"
	v1 "github.com/rzkdmln/sicakap/internal/infrastructure/http/v1"
	"github.com/rzkdmln/sicakap/internal/infrastructure/storage/postgres"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting sicakap server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Numbering allocator ---
	numberingService, err := numbering.NewService(numbering.Config{
		Range: numbering.Range{
			Start: getEnvInt("REG_NUMBER_START", 601),
			End:   getEnvInt("REG_NUMBER_END", 700),
		},
		Ledger:   postgres.NewPencatatanLedger(txManager),
		Clock:    clock.System{},
		Recorder: postgres.NewNumberingRecorder(auditService),
	})
	if err != nil {
		log.Fatalw("invalid numbering configuration", "error", err)
	}

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Auth Service ---
	userRepo := postgres.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, jwtService, numberingService, auth.DefaultServiceConfig())

	// --- Record and template services ---
	pencatatanRepo := postgres.NewPencatatanRepo(txManager)
	pencatatanService := pencatatan.NewService(pencatatanRepo, numberingService, txManager, postgres.NewRecordAuditor(auditService))

	redaksiService := redaksi.NewService(postgres.NewRedaksiRepo(txManager))

	// --- Archive store ---
	archiveStore, err := archive.NewStore(getEnv("ARCHIVE_ROOT", "./arsip"))
	if err != nil {
		log.Fatalw("failed to initialize archive store", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:              pool,
		Logger:            log,
		JWTValidator:      jwtService,
		AuthService:       authService,
		NumberingService:  numberingService,
		PencatatanService: pencatatanService,
		PencatatanRepo:    pencatatanRepo,
		RedaksiService:    redaksiService,
		ArchiveStore:      archiveStore,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
