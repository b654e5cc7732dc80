package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casevalue-backend/bootstrap"
	"casevalue-backend/config"
	"casevalue-backend/handlers"
	"casevalue-backend/logging"
	"casevalue-backend/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			logrus.Warn("No .env file found, using environment variables")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	log := logging.Component("server")

	if err := repository.Migrate(cfg.DatabaseURL, -1, log); err != nil {
		log.WithError(err).Fatal("Failed to apply migrations")
	}

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer app.Close()

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(app.Service, logging.Component("analysis_handler"))
	caseHandler := handlers.NewCaseHandler(app.Service)
	var reportHandler *handlers.ReportHandler
	if app.Archive != nil {
		reportHandler = handlers.NewReportHandler(app.Service, app.Archive)
	}

	// Setup Gin router
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	if origins := cfg.AllowedOrigins(); len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := app.DB.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": status,
		})
	})

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	handlers.RegisterRoutes(r, analysisHandler, caseHandler, reportHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
