// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotel-search/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient holds the hotel store connection pool.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pool. sql.Open does not dial, call Ping to verify.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// ConnectPostgres opens a pool and pings it. A pool that fails the ping is
// closed before the error is returned.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.verify(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *PostgresClient) verify(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	return nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
