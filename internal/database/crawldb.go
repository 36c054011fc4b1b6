package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fumist/webdrift/internal/model"
)

// CrawlDB provides SQLite-based storage for the fetch journal.
// It manages the connection and provides methods for recording and
// querying fetch outcomes.
//
// Design decision: We use a single database file per user rather than
// one per crawl session. The journal is an append-only log across
// sessions, which makes "what did I fetch last week" queries trivial
// and keeps backup/restore to a single file.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better write performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "webdrift.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite only supports one writer; the crawl is single-threaded
	// anyway, so a single connection is all we ever need.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path to the database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Fetch records store one row per queue item processed
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		address TEXT NOT NULL,
		final_address TEXT,
		status_code INTEGER,
		content_type TEXT,
		byte_size INTEGER,
		outcome TEXT NOT NULL,
		error TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_address ON fetches(address);
	CREATE INDEX IF NOT EXISTS idx_fetches_outcome ON fetches(outcome);
	CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RecordFetch appends a fetch record to the journal. The journal is
// append-only: refetching an address inserts a new row rather than
// updating the old one, so the crawl's revisit behavior stays visible
// in the data.
//
// RecordFetch satisfies the crawler's Journal interface.
func (cdb *CrawlDB) RecordFetch(ctx context.Context, rec *model.FetchRecord) error {
	query := `
	INSERT INTO fetches (address, final_address, status_code, content_type, byte_size, outcome, error, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := cdb.db.ExecContext(ctx, query,
		rec.Address,
		rec.FinalAddress,
		rec.StatusCode,
		rec.ContentType,
		rec.ByteSize,
		rec.Outcome,
		rec.Error,
		fetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}

	return nil
}

// RecentFetches returns the most recent fetch records, newest first.
// A limit of 0 or less defaults to 50.
func (cdb *CrawlDB) RecentFetches(ctx context.Context, limit int) ([]*model.FetchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT address, final_address, status_code, content_type, byte_size, outcome, error, fetched_at
	FROM fetches
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := cdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*model.FetchRecord
	for rows.Next() {
		var rec model.FetchRecord
		var fetchedAt string

		if err := rows.Scan(
			&rec.Address,
			&rec.FinalAddress,
			&rec.StatusCode,
			&rec.ContentType,
			&rec.ByteSize,
			&rec.Outcome,
			&rec.Error,
			&fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			rec.FetchedAt = t
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch records: %w", err)
	}

	return records, nil
}

// CountByOutcome returns the number of journal rows per outcome.
func (cdb *CrawlDB) CountByOutcome(ctx context.Context) (map[string]int, error) {
	query := `SELECT outcome, COUNT(*) FROM fetches GROUP BY outcome`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		counts[outcome] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcome counts: %w", err)
	}

	return counts, nil
}

// FetchCountFor returns how many times an address appears in the
// journal. With no visited set in the crawler, the same address can
// legitimately be recorded many times.
func (cdb *CrawlDB) FetchCountFor(ctx context.Context, address string) (int, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fetches WHERE address = ?`, address,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fetches for %s: %w", address, err)
	}
	return count, nil
}
