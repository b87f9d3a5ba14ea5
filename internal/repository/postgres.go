package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool used by PostgresKV.
type Database interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresKV stores slots as rows of the kv_slots table.
type PostgresKV struct {
	db  Database
	log *slog.Logger
}

// NewPostgresKV creates a new instance of PostgresKV with the provided Database.
func NewPostgresKV(db Database, log *slog.Logger) *PostgresKV {
	return &PostgresKV{db: db, log: log}
}

// DSN builds a postgres connection URL from its parts.
func DSN(host, port, user, password, name string) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}

	return dsn.String()
}

// NewDatabase opens a connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}

// Get returns the value of the slot identified by key.
// A missing row is reported as found=false without an error.
func (r *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM kv_slots
		WHERE key = $1;
	`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.DebugContext(ctx, "Slot is not set yet", "key", key)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return value, true, nil
}

// Set creates or replaces the slot identified by key.
func (r *PostgresKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET
			value = EXCLUDED.value,
			updated_at = now();
	`

	_, err := r.db.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	return nil
}

// Ping checks the database connection.
func (r *PostgresKV) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
