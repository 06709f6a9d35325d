package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/config"
)

const (
	// applicationName tags examcraft sessions in pg_stat_activity
	applicationName = "examcraft"
	connectTimeout  = 10 * time.Second
	// healthCheckPeriod is how often idle connections are checked
	healthCheckPeriod = 30 * time.Second
)

// PoolConfig turns the database section into a pgxpool configuration
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	maxConns := max(int32(cfg.Database.MaxOpenConns), 1)
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = min(max(int32(cfg.Database.MaxIdleConns), 0), maxConns)
	poolConfig.MaxConnLifetime = config.Duration(cfg.Database.ConnMaxLifetime)
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	return poolConfig, nil
}

// Connect opens the pool that backs users, exams, the question bank and
// templates, and checks it answers
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Int32("maxConns", poolConfig.MaxConns).
		Msg("Connected to PostgreSQL")
	return pool, nil
}
