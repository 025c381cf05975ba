package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/phishguard/linkguard/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the CacheRepository
// interface, for sharing the verdict cache between guard instances.
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// InnoDB caps index key length, so the url column cannot be TEXT.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verdict_cache (
			url VARCHAR(768) PRIMARY KEY,
			status VARCHAR(64),
			confidence FLOAT NULL,
			reason TEXT,
			checked_at TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_verdict_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go cache.startCleanupTask()
	}

	return cache, nil
}

// Get retrieves a non-expired entry for a URL
func (c *MySQLCache) Get(ctx context.Context, url string) (*core.CacheEntry, error) {
	var status, reason string
	var confidence sql.NullFloat64
	var checkedAt, expiresAt time.Time

	err := c.db.QueryRowContext(ctx, `
		SELECT status, confidence, reason, checked_at, expires_at
		FROM verdict_cache
		WHERE url = ? AND expires_at > NOW()
	`, url).Scan(&status, &confidence, &reason, &checkedAt, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry := &core.CacheEntry{
		URL:       url,
		Status:    status,
		Reason:    reason,
		CheckedAt: checkedAt,
		ExpiresAt: expiresAt,
	}
	if confidence.Valid {
		entry.Confidence = &confidence.Float64
	}

	return entry, nil
}

// Set stores an entry, overwriting any prior one for the URL
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	var confidence sql.NullFloat64
	if entry.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *entry.Confidence, Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO verdict_cache (url, status, confidence, reason, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			confidence = VALUES(confidence),
			reason = VALUES(reason),
			checked_at = VALUES(checked_at),
			expires_at = VALUES(expires_at)
	`, entry.URL, entry.Status, confidence, entry.Reason, entry.CheckedAt, entry.ExpiresAt)

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a URL
func (c *MySQLCache) Delete(ctx context.Context, url string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM verdict_cache
		WHERE url = ?
	`, url)

	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM verdict_cache
		WHERE expires_at <= NOW()
	`)

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
