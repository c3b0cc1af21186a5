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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stwalsh4118/rentaltax/internal/config"
	"github.com/stwalsh4118/rentaltax/internal/database"
	"github.com/stwalsh4118/rentaltax/internal/handlers"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/logger"
	"github.com/stwalsh4118/rentaltax/internal/services"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	connectTimeout  = 10 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting rental tax API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
		"tax_year":    cfg.Tax.TaxYear,
	})

	recordStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open record store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			log.Error("Failed to close record store", err, nil)
		}
	}()

	svc := services.New(recordStore, cfg.Tax, jurisdiction.DefaultRegistry(), log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Services:     svc,
		Store:        recordStore,
		Logger:       log,
		StoreBackend: cfg.Store.Driver,
		Env:          cfg.Server.Env,
		DefaultActor: cfg.Server.DefaultActor,
		CORSOrigins:  cfg.CORS.Origins,
	})

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

// openStore connects the configured record store backend.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := database.Migrate(cfg.Database, log); err != nil {
			return nil, err
		}
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.RegisterPoolMetrics(prometheus.DefaultRegisterer); err != nil {
			log.Warn("Pool metrics not registered", map[string]interface{}{"error": err.Error()})
		}
		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
		return store.NewPostgresStore(db), nil

	case config.StoreDriverRedis:
		s := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Info("Redis connection established", map[string]interface{}{
			"addr":   cfg.Redis.Addr,
			"db":     cfg.Redis.DB,
			"prefix": cfg.Redis.Prefix,
		})
		return s, nil

	default:
		log.Warn("Using in-memory store; data is lost on restart", nil)
		return store.NewMemoryStore(), nil
	}
}
