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

	"github.com/aliraza167/construction-planner/api/internal/catalog"
	"github.com/aliraza167/construction-planner/api/internal/config"
	"github.com/aliraza167/construction-planner/api/internal/database"
	"github.com/aliraza167/construction-planner/api/internal/estimator"
	"github.com/aliraza167/construction-planner/api/internal/handlers"
	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/middleware"
	"github.com/aliraza167/construction-planner/api/internal/migrations"
	"github.com/aliraza167/construction-planner/api/internal/repository"
	"github.com/aliraza167/construction-planner/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Construction Planner API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Apply schema migrations
	if err := migrations.Up(db.SQLDB()); err != nil {
		log.Fatal("Failed to apply database migrations", err, nil)
	}

	// Load the material price catalog
	priceCatalog, err := catalog.Load()
	if err != nil {
		log.Fatal("Failed to load material price catalog", err, nil)
	}
	log.Info("Material price catalog loaded", map[string]interface{}{
		"materials": len(priceCatalog),
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository and service layers
	stateRepo := repository.NewStateRepository(db)
	estimatorClient := estimator.NewClient(cfg.Estimator)
	floorService := services.NewFloorService(stateRepo, log)
	workflowService := services.NewWorkflowService(stateRepo, estimatorClient, floorService, log)
	pricingService := services.NewPricingService(stateRepo, priceCatalog, log)
	reportService := services.NewReportService(stateRepo, log)
	designService := services.NewDesignService(stateRepo, estimatorClient, log)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(workflowService, floorService)
	estimateHandler := handlers.NewEstimateHandler(workflowService, pricingService, reportService)
	designHandler := handlers.NewDesignHandler(workflowService, designService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.PUT("/:id/plot", sessionHandler.UpdatePlot)
			sessions.POST("/:id/floors", sessionHandler.AddFloor)
			sessions.PATCH("/:id/floors/:index", sessionHandler.UpdateFloor)
			sessions.DELETE("/:id/floors/:index", sessionHandler.RemoveFloor)
			sessions.POST("/:id/estimate", estimateHandler.Submit)
			sessions.GET("/:id/materials", estimateHandler.Materials)
			sessions.POST("/:id/materials/confirm", estimateHandler.Confirm)
			sessions.GET("/:id/report", estimateHandler.Report)
			sessions.POST("/:id/design", designHandler.Generate)
			sessions.GET("/:id/design", designHandler.Get)
			sessions.DELETE("/:id/design", designHandler.Delete)
			sessions.POST("/:id/advance", sessionHandler.Advance)
			sessions.POST("/:id/back", sessionHandler.Back)
			sessions.POST("/:id/reset", sessionHandler.Reset)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
