package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stwalsh4118/rentaltax/internal/config"
)

// Pool tuning for the record store. Records are small JSON documents, so
// connections are short-lived and recycled aggressively.
const (
	connectTimeout    = 5 * time.Second
	maxConnIdleTime   = 30 * time.Second
	maxConnLifetime   = time.Hour
	healthCheckPeriod = time.Minute
)

// Database holds the pgx connection pool backing the postgres store driver.
type Database struct {
	Pool *pgxpool.Pool
}

// NewPostgresPool opens a pgx pool sized from cfg and pings it before returning.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN("postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConns = int32(cfg.PoolMax)
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the pool. It is safe to call more than once.
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the connection pool.
func (db *Database) Stats() *pgxpool.Stat {
	if db.Pool == nil {
		return nil
	}
	return db.Pool.Stat()
}

// RegisterPoolMetrics exposes pool gauges (total, idle, acquired connections)
// on reg. The gauges read Stats at scrape time.
func (db *Database) RegisterPoolMetrics(reg prometheus.Registerer) error {
	gauge := func(name, help string, value func(*pgxpool.Stat) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "rentaltax_db_pool_" + name,
			Help: help,
		}, func() float64 {
			stat := db.Stats()
			if stat == nil {
				return 0
			}
			return float64(value(stat))
		})
	}

	collectors := []prometheus.Collector{
		gauge("total_connections", "Connections currently held by the pool.", (*pgxpool.Stat).TotalConns),
		gauge("idle_connections", "Idle connections in the pool.", (*pgxpool.Stat).IdleConns),
		gauge("acquired_connections", "Connections currently checked out of the pool.", (*pgxpool.Stat).AcquiredConns),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("failed to register pool metric: %w", err)
		}
	}
	return nil
}
