package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/phishguard/linkguard/internal/core"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the CacheRepository
// interface, for verdicts that should survive restarts.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// No schema version column yet; the layout is append-only for now.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verdict_cache (
			url TEXT PRIMARY KEY,
			status TEXT,
			confidence REAL,
			reason TEXT,
			checked_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_verdict_expires_at ON verdict_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
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
func (c *SQLiteCache) Get(ctx context.Context, url string) (*core.CacheEntry, error) {
	var status, reason string
	var confidence sql.NullFloat64
	var checkedAt, expiresAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT status, confidence, reason, checked_at, expires_at
		FROM verdict_cache
		WHERE url = ? AND expires_at > ?
	`, url, time.Now().Format(time.RFC3339)).Scan(&status, &confidence, &reason, &checkedAt, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	checked, err := time.Parse(time.RFC3339, checkedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checked_at timestamp: %w", err)
	}
	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}

	entry := &core.CacheEntry{
		URL:       url,
		Status:    status,
		Reason:    reason,
		CheckedAt: checked,
		ExpiresAt: expires,
	}
	if confidence.Valid {
		entry.Confidence = &confidence.Float64
	}

	return entry, nil
}

// Set stores an entry, overwriting any prior one for the URL
func (c *SQLiteCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	var confidence sql.NullFloat64
	if entry.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *entry.Confidence, Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO verdict_cache (url, status, confidence, reason, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.URL, entry.Status, confidence, entry.Reason,
		entry.CheckedAt.Format(time.RFC3339), entry.ExpiresAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a URL
func (c *SQLiteCache) Delete(ctx context.Context, url string) error {
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
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM verdict_cache
		WHERE expires_at <= ?
	`, time.Now().Format(time.RFC3339))

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
func (c *SQLiteCache) startCleanupTask() {
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
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
