package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "modernc.org/sqlite"
)

// SQLite is a persistent cache backend stored in a local SQLite database.
// The connection is instrumented so cache queries show up in traces.
type SQLite struct {
	conn       *sql.DB
	defaultTTL time.Duration
}

// NewSQLite opens or creates the cache database at path. A non-positive ttl
// falls back to one hour.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	conn, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(semconv.DBSystemSqlite))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	c := &SQLite{conn: conn, defaultTTL: ttl}
	if err := c.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLite) migrate() error {
	if _, err := c.conn.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expires_at INTEGER
		)
	`); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	if _, err := c.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache (expires_at)
	`); err != nil {
		return fmt.Errorf("failed to create cache index: %w", err)
	}
	return nil
}

func (c *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.conn.QueryRowContext(ctx, `
		SELECT value FROM cache
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, time.Now().Unix()).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}
	return value, nil
}

func (c *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	_, err := c.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache (key, value, expires_at) VALUES (?, ?, ?)
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (c *SQLite) Delete(ctx context.Context, key string) (bool, error) {
	res, err := c.conn.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("cache delete failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (c *SQLite) Clear(ctx context.Context) error {
	if _, err := c.conn.ExecContext(ctx, `DELETE FROM cache`); err != nil {
		return fmt.Errorf("cache clear failed: %w", err)
	}
	return nil
}

// Prune removes expired entries. Callers may run it periodically; reads
// already exclude expired rows.
func (c *SQLite) Prune(ctx context.Context) (int64, error) {
	res, err := c.conn.ExecContext(ctx, `
		DELETE FROM cache WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cache prune failed: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLite) Close() error {
	return c.conn.Close()
}
