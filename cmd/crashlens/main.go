package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crashlens/crashlens/internal/core"
	"github.com/crashlens/crashlens/internal/engine"
	"github.com/crashlens/crashlens/internal/ingest"
	"github.com/crashlens/crashlens/internal/storage"
	"github.com/crashlens/crashlens/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("CRASHLENS_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/crashlens.yaml"
	}

	config, err := core.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(config.App.LogLevel); err != nil {
		fmt.Printf("Logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// A malformed rule base must stop the process; running with partial
	// rules would silently misclassify.
	rb := engine.DefaultRuleBase()
	if config.Rules.Path != "" {
		rb, err = engine.LoadRuleBaseFile(config.Rules.Path)
		if err != nil {
			logger.Fatal("Rule base load failed", zap.Error(err))
		}
	}
	logger.Info("Rule base loaded", zap.Int("categories", rb.Len()))

	db, err := storage.NewPostgresClient(config.GetDatabaseURL(), logger.Log)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureSchema(ctx); err != nil {
		cancel()
		logger.Fatal("Schema setup failed", zap.Error(err))
	}
	cancel()

	eng := engine.New(rb, logger.Log)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()

	if config.Ingest.Enabled {
		poller, err := ingest.NewMetricsPoller(
			config.Ingest.PrometheusURL,
			eng,
			db,
			config.Ingest.AppName,
			config.Ingest.Queries,
			config.PollIntervalDuration(),
			logger.Log,
		)
		if err != nil {
			logger.Fatal("Metrics poller init failed", zap.Error(err))
		}

		go func() {
			if err := poller.Start(pollerCtx); err != nil && err != context.Canceled {
				logger.Error("Poller error", zap.Error(err))
			}
		}()
	}

	if config.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), ginLogger())

	router.GET("/health", healthHandler(db, config))
	router.GET("/ready", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", statusHandler(config))

		// Classification endpoints
		v1.POST("/events/classify", classifyHandler(eng, db))
		v1.POST("/events/classify/batch", classifyBatchHandler(eng, db))

		// Health scoring
		v1.POST("/health/score", scoreHealthHandler(eng))
		v1.GET("/health/history", healthHistoryHandler(db))

		// Finding queries
		v1.GET("/findings/recent", recentFindingsHandler(db))
		v1.GET("/findings/category/:category", findingsByCategoryHandler(db))

		// Rule catalog
		v1.GET("/rules", rulesHandler(rb))
	}

	srv := &http.Server{
		Addr:           config.Server.Addr,
		Handler:        router,
		ReadTimeout:    config.ReadTimeoutDuration(),
		WriteTimeout:   config.WriteTimeoutDuration(),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	srv.Shutdown(shutdownCtx)
	pollerCancel()
	db.Close()
}

func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("ip", c.ClientIP()),
		)
	}
}
