// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/rzkdmln/sicakap/internal/domain/archive"
	"github.com/rzkdmln/sicakap/internal/domain/auth"
	"github.com/rzkdmln/sicakap/internal/domain/numbering"
	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
	"github.com/rzkdmln/sicakap/internal/domain/redaksi"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/handlers"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/middleware"
	"github.com/rzkdmln/sicakap/internal/infrastructure/storage/postgres"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool *postgres.Pool

	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService       *auth.Service
	NumberingService  *numbering.Service
	PencatatanService *pencatatan.Service
	PencatatanRepo    pencatatan.Repository
	RedaksiService    *redaksi.Service
	ArchiveStore      *archive.Store
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		api.POST("/auth/login", authHandler.Login)

		// Everything below requires a valid session token.
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/register", middleware.RequireRole(auth.RoleAdmin), authHandler.Register)

		registerNumberingRoutes(protected, baseHandler, cfg)
		registerPencatatanRoutes(protected, baseHandler, cfg)
		registerRedaksiRoutes(protected, baseHandler, cfg)
		registerArchiveRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerNumberingRoutes registers the allocator endpoints. Paths mirror
// the front-office client, flat under /api/v1.
func registerNumberingRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewNumberingHandler(base, cfg.NumberingService)

	rg.POST("/book-reg-number", h.Book)
	rg.POST("/release-reg-number", h.Release)
	rg.POST("/confirm-reg-number", h.Confirm)
	rg.POST("/switch-date", h.SwitchDate)
	rg.POST("/reset-daily-numbers", h.ResetDay)
	rg.POST("/reset-numbers", middleware.RequireRole(auth.RoleAdmin), h.ResetAll)

	rg.GET("/settings", h.GetSettings)
	rg.POST("/settings", middleware.RequireRole(auth.RoleAdmin), h.UpdateSettings)
}

func registerPencatatanRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewPencatatanHandler(base, cfg.PencatatanService, cfg.NumberingService)

	grp := rg.Group("/pencatatan")
	grp.POST("", h.Create)
	grp.GET("", h.List)
	grp.GET("/statistik", h.Statistik)
	grp.GET("/date-statistics", h.DateStatistics)
	grp.GET("/:id", h.Get)
	grp.PUT("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)
}

func registerRedaksiRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewRedaksiHandler(base, cfg.RedaksiService)

	grp := rg.Group("/redaksi")
	grp.POST("", h.Create)
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.PUT("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)
}

func registerArchiveRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewArchiveHandler(base, cfg.ArchiveStore, cfg.PencatatanRepo)

	grp := rg.Group("/arsip")
	grp.POST("", h.Upload)
	grp.GET("/download/*path", h.Download)
	grp.POST("/bulk-upload", h.BulkUpload)
}
