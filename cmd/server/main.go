package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/application/service"
	"github.com/nattapongw/travel-portal/internal/approval"
	"github.com/nattapongw/travel-portal/internal/config"
	"github.com/nattapongw/travel-portal/internal/httpapi"
	"github.com/nattapongw/travel-portal/internal/infrastructure/attachment"
	"github.com/nattapongw/travel-portal/internal/infrastructure/external/lark"
	"github.com/nattapongw/travel-portal/internal/infrastructure/external/openai"
	"github.com/nattapongw/travel-portal/internal/infrastructure/persistence/repository"
	"github.com/nattapongw/travel-portal/internal/report"
	"github.com/nattapongw/travel-portal/pkg/database"
	"github.com/nattapongw/travel-portal/pkg/utils"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Travel Portal Workflow Engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	requestRepo := repository.NewRequestRepository(db.DB, logger)
	policyRepo := repository.NewPolicyRuleRepository(db.DB, logger)
	doaRepo := repository.NewDOARuleRepository(db.DB, logger)

	// Optional integrations
	var notifier port.Notifier
	if cfg.Lark.Enabled {
		notifier = lark.NewMessenger(lark.Config{
			AppID:          cfg.Lark.AppID,
			AppSecret:      cfg.Lark.AppSecret,
			RoleRecipients: cfg.Lark.RoleRecipients,
		}, logger)
	}

	svcLogger := utils.NewKVLogger(logger)
	engine := approval.NewEngine()

	requestService := service.NewRequestService(requestRepo, policyRepo, doaRepo, engine, notifier, svcLogger)
	adminService := service.NewAdminService(policyRepo, doaRepo, svcLogger)

	var assistantService service.AssistantService
	if cfg.OpenAI.Enabled {
		generator := openai.NewGenerator(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
		}, logger)
		receiptReader := attachment.NewPDFReader(logger)
		assistantService = service.NewAssistantService(generator, receiptReader, svcLogger)
	}

	exporter := report.NewExporter(logger)
	handler := httpapi.NewHandler(requestService, adminService, assistantService, exporter, cfg.Report.OutputDir, logger)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "travel-portal",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
