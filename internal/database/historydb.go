package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wordhist/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "wordhist.db"

// HistoryDB stores run reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
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

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per saved run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		profile TEXT NOT NULL,
		bin_size INTEGER NOT NULL,
		include_zeroes INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		started_at TEXT NOT NULL,
		documents INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	CREATE INDEX IF NOT EXISTS idx_runs_profile ON runs(profile);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run report and sets its ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (root, profile, bin_size, include_zeroes, started_at, documents, skipped, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		report.Root,
		report.Profile,
		report.BinSize,
		report.IncludeZeroes,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.Documents,
		report.SkippedCount(),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	report.ID = id

	return id, nil
}

// GetRun retrieves a run report by its database ID.
// It returns nil without error when no such run exists.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RunReport, error) {
	query := `
	SELECT id, report_json FROM runs
	WHERE id = ?
	`

	var runID int64
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&runID, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeReport(runID, reportJSON)
}

// LatestRuns returns up to limit runs of the given profile, newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, profile string, limit int) ([]*model.RunReport, error) {
	query := `
	SELECT id, report_json FROM runs
	WHERE profile = ?
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	var reports []*model.RunReport
	for rows.Next() {
		var id int64
		var reportJSON string
		if err := rows.Scan(&id, &reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		report, err := decodeReport(id, reportJSON)
		if err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// ListRoots returns every root directory with at least one saved run.
func (hdb *HistoryDB) ListRoots(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT root FROM runs
	ORDER BY root
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roots: %w", err)
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, fmt.Errorf("failed to scan root: %w", err)
		}
		roots = append(roots, root)
	}

	return roots, rows.Err()
}

// RunMetadata contains summary information about a saved run.
// This is used for listing history without loading full reports.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64 `json:"id"`

	// Root is the directory that was traversed.
	Root string `json:"root"`

	// Profile groups comparable runs.
	Profile string `json:"profile"`

	// BinSize is the histogram bin width of the run.
	BinSize int `json:"bin_size"`

	// IncludeZeroes reports whether empty bins were back-filled.
	IncludeZeroes bool `json:"include_zeroes"`

	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp"`

	// Documents is the number of documents counted.
	Documents int `json:"documents"`

	// Skipped is the number of documents that could not be counted.
	Skipped int `json:"skipped"`
}

// ListRuns returns metadata of every saved run of root, newest first.
func (hdb *HistoryDB) ListRuns(ctx context.Context, root string) ([]RunMetadata, error) {
	query := `
	SELECT id, root, profile, bin_size, include_zeroes, started_at, documents, skipped
	FROM runs
	WHERE root = ?
	ORDER BY id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var startedAt string

		if err := rows.Scan(
			&meta.ID,
			&meta.Root,
			&meta.Profile,
			&meta.BinSize,
			&meta.IncludeZeroes,
			&startedAt,
			&meta.Documents,
			&meta.Skipped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(startedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// decodeReport parses a stored report and restores its database ID.
func decodeReport(id int64, reportJSON string) (*model.RunReport, error) {
	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.ID = id
	return &report, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // Format written by SaveRun
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
