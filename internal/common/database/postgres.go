// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"accreditation-workers/internal/common/config"

	_ "github.com/lib/pq"
)

const applicationName = "accreditation-workers"

// PostgresClient holds the connection pool the batch registry reads through.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the registry's connection pool. Sessions are read-only: the workers
// never write to the batch store. The pool connects lazily; call Ping to verify it.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", readOnlyDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// readOnlyDSN extends the configured DSN with run-time parameters lib/pq passes to the
// server at connection start.
func readOnlyDSN(cfg config.PostgresConfig) string {
	return fmt.Sprintf("%s application_name=%s default_transaction_read_only=on", cfg.GetDSN(), applicationName)
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Name identifies the dependency in health reports.
func (c *PostgresClient) Name() string {
	return "postgres"
}
