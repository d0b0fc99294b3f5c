package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/handler"
	"github.com/trongate/trongate/internal/middleware"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/service"
	"github.com/trongate/trongate/internal/telegram"
	"github.com/trongate/trongate/internal/tron"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)

	// 2. Initialize Persistence
	db, err := repository.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open tenant store: %v", err)
	}
	tenantRepo, err := repository.NewGormTenantRepo(db)
	if err != nil {
		log.Fatalf("Failed to migrate tenant store: %v", err)
	}
	auditRepo, err := repository.NewGormAuditRepo(db)
	if err != nil {
		log.Fatalf("Failed to migrate audit store: %v", err)
	}

	// Dedup persistence (Redis > Memory)
	var dedup service.DedupStore
	if cfg.Redis.Addr != "" {
		redisClient, err := repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis")
			dedup = repository.NewRedisDedupStore(redisClient)
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
		}
	}
	if dedup == nil {
		dedup = service.NewInMemDedupStore()
	}

	// 3. Initialize Core Services
	tenantStore := service.NewTenantStore(tenantRepo, service.NewEnvSecretResolver(), cfg)
	if err := tenantStore.Seed(context.Background()); err != nil {
		log.Fatalf("Failed to seed tenants: %v", err)
	}

	tronClient := tron.NewHTTPClient(cfg.Tron)
	botClient := telegram.NewBotClient(cfg.Telegram)

	notifySvc := service.NewNotifyService(botClient, tronClient, dedup)
	fundingSvc := service.NewFundingService(tronClient, notifySvc)

	auditSvc, err := service.NewAuditService("./logs", auditRepo)
	if err != nil {
		log.Fatalf("Failed to initialize audit service: %v", err)
	}

	// 4. Initialize Handlers
	verifyHandler := handler.NewVerifyHandler(tenantStore)
	walletHandler := handler.NewWalletHandler(fundingSvc, tronClient)
	notifyHandler := handler.NewNotifyHandler(notifySvc)
	adminHandler := handler.NewAdminHandler(tenantStore, auditSvc)

	// 5. Setup Router
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware(auditSvc))
	r.Use(middleware.CORSMiddleware(tenantStore))

	// Public surface
	r.GET("/health", verifyHandler.Health)
	r.GET("/verify-domain", verifyHandler.VerifyDomain)

	// Metrics Endpoint
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Tenant-gated API
	api := r.Group("/api")
	api.Use(middleware.GateMiddleware(tenantStore))
	{
		api.POST("/check-balance", walletHandler.CheckBalance)
		api.POST("/send-trx", walletHandler.SendTrx)
		api.POST("/telegram-notify", notifyHandler.TelegramNotify)
		api.POST("/transaction-status", walletHandler.TransactionStatus)
		api.GET("/server-info", walletHandler.ServerInfo)
	}

	// Admin surface
	admin := r.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg))
	{
		admin.POST("/tenants", adminHandler.UpsertTenant)
		admin.GET("/tenants", adminHandler.ListTenants)
		admin.POST("/tenants/:domain/toggle", adminHandler.ToggleTenant)
		admin.POST("/tenants/:domain/enable", adminHandler.EnableTenant)
		admin.POST("/tenants/:domain/disable", adminHandler.DisableTenant)
		admin.GET("/audit", adminHandler.ListAudit)
	}

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 TronGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	auditSvc.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("Server exiting")
}
