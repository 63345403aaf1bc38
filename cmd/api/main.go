package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "order17vat/api/swagger" // swagger docs
	"order17vat/internal/app"
	"order17vat/internal/config"
	"order17vat/internal/database"
	"order17vat/internal/handler"
	"order17vat/internal/logger"
	"order17vat/internal/middleware"
	"order17vat/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Order VAT 17% API
// @version         1.0
// @description     Order back office with the order17vat module: a 17% VAT applicable flag per order.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		ServiceName: "order17vat",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, cfg); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver), zap.String("migrate", cfg.DBMigrate))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	a := app.New(db, wsHub)
	if err := a.Module.Install(ctx); err != nil {
		log.Fatal("order17vat install failed", zap.Error(err))
	}

	if cfg.AuthDisabled {
		log.Warn("authentication is disabled, every request acts as admin")
	}
	auth := middleware.NewAuth(middleware.GetJWTSecret(), cfg.AuthDisabled && !cfg.IsRelease())

	// Initialize Handlers
	orderHandler := handler.NewOrderHandler(a.OrderService, auth)
	vatHandler := handler.NewVatHandler(a.VatService, auth)
	auditHandler := handler.NewAuditHandler(a.AuditService, auth)

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-Id"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "module": a.Module.IsInstalled()})
	})

	router.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret(), "admin", "employee")
	})

	orderHandler.RegisterRoutes(router.Group(""))
	vatHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
