package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradeplanner/backend/internal/database"
	"github.com/gradeplanner/backend/internal/handlers"
	"github.com/gradeplanner/backend/internal/middleware"
	"github.com/gradeplanner/backend/internal/services"
	"github.com/gradeplanner/backend/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func openStore(db *gorm.DB) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.BoltPath), 0o755); err != nil {
			return nil, fmt.Errorf("create bolt directory: %w", err)
		}
		return storage.OpenBolt(cfg.Storage.BoltPath)
	case "sql":
		return storage.NewSQLStore(db), nil
	default:
		return storage.NewMemoryStore(), nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, logger); err != nil {
		return err
	}

	store, err := openStore(db)
	if err != nil {
		return err
	}
	defer store.Close()

	seed, err := services.LoadSeedTemplate(cfg.Planner.SeedFile)
	if err != nil {
		return err
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.Origins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "grade-planner-api", "storage": cfg.Storage.Driver})
	})

	if cfg.Monitoring.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Services
	authService := services.NewAuthService(db, cfg)
	auditService := services.NewAuditService(db)
	plannerService := services.NewPlannerService(store, auditService, seed, cfg.Planner.DefaultTargetPass, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(db, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)
	subjectHandler := handlers.NewSubjectHandler(plannerService)
	plannerHandler := handlers.NewPlannerHandler(plannerService)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		// Stateless evaluation needs no account
		v1.POST("/planner/evaluate", plannerHandler.Evaluate)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		protected.Use(middleware.OwnerMiddleware())
		{
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.Get)
				admin.PUT("/users/:id", userHandler.Update)
				admin.GET("/audit/recent", auditHandler.GetRecentActivity)
			}

			protected.GET("/subjects", subjectHandler.List)
			protected.POST("/subjects", subjectHandler.Create)
			protected.DELETE("/subjects/:code", subjectHandler.Delete)

			planner := protected.Group("/subjects/:code/planner")
			{
				planner.GET("", plannerHandler.Get)
				planner.PUT("/settings", plannerHandler.UpdateSettings)
				planner.POST("/items", plannerHandler.AddItem)
				planner.POST("/items/move", plannerHandler.MoveItem)
				planner.PATCH("/items/:itemID", plannerHandler.UpdateItem)
				planner.DELETE("/items/:itemID", plannerHandler.RemoveItem)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
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
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
