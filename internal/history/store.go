package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/breachscan/internal/model"
)

// DBFileName is the history database file name inside the data directory.
const DBFileName = "history.db"

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrNotFinished is returned when saving a report that has no verdict yet.
	ErrNotFinished = errors.New("check report is not finished")

	// ErrNoDatabase is returned by Open when the database is missing and
	// CreateIfNotExists is false.
	ErrNoDatabase = errors.New("history database not found")
)

// Store is the SQLite-backed verdict history.
//
// It records what a check concluded, never what was checked: no email
// address, password, hash or hash prefix is written.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that a running server and a
	// history command can use the file at the same time.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoDatabase, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		check_id TEXT NOT NULL UNIQUE,
		origin TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		email_status TEXT NOT NULL,
		email_provider TEXT,
		source_count INTEGER NOT NULL DEFAULT 0,
		password_count INTEGER,
		risk_level TEXT NOT NULL,
		risk_reason TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_checks_started ON checks(started_at);
	CREATE INDEX IF NOT EXISTS idx_checks_level ON checks(risk_level);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored verdict.
type Record struct {
	ID        int64
	CheckID   string
	Origin    string
	StartedAt time.Time
	Duration  time.Duration

	// EmailStatus is the tri-state breach answer.
	EmailStatus model.BreachStatus

	// EmailProvider is the provider that answered, empty when unknown.
	EmailProvider string

	// SourceCount is the number of breach sources, including omitted ones.
	SourceCount int

	// PasswordCount is the corpus count, or nil when the lookup failed.
	PasswordCount *int64

	RiskLevel  model.RiskLevel
	RiskReason model.RiskReason
}

// Save stores the verdict of a finished report. origin names the surface
// that ran the check ("cli" or "server").
func (s *Store) Save(ctx context.Context, origin string, report *model.CheckReport) error {
	if report.FinishedAt.IsZero() {
		return ErrNotFinished
	}

	var passwordCount sql.NullInt64
	if n, ok := report.Password.Value(); ok {
		passwordCount = sql.NullInt64{Int64: n, Valid: true}
	}

	query := `
	INSERT INTO checks (check_id, origin, started_at, duration_ms, email_status,
		email_provider, source_count, password_count, risk_level, risk_reason)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		report.ID,
		origin,
		report.StartedAt.UTC().Format(timeLayout),
		report.Duration().Milliseconds(),
		report.Email.Status.String(),
		report.Email.Provider,
		len(report.Email.Sources)+report.Email.Omitted,
		passwordCount,
		report.Risk.Level.String(),
		string(report.Risk.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to save check: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. A non-positive limit
// returns every record.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
	SELECT id, check_id, origin, started_at, duration_ms, email_status,
		email_provider, source_count, password_count, risk_level, risk_reason
	FROM checks
	ORDER BY started_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec           Record
			startedAt     string
			durationMS    int64
			emailStatus   string
			provider      sql.NullString
			passwordCount sql.NullInt64
			level         string
			reason        string
		)
		if err := rows.Scan(&rec.ID, &rec.CheckID, &rec.Origin, &startedAt, &durationMS,
			&emailStatus, &provider, &rec.SourceCount, &passwordCount, &level, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}

		rec.StartedAt = parseTimestamp(startedAt)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.EmailStatus = model.ParseBreachStatus(emailStatus)
		rec.EmailProvider = provider.String
		if passwordCount.Valid {
			n := passwordCount.Int64
			rec.PasswordCount = &n
		}
		rec.RiskLevel, _ = model.ParseRiskLevel(level) //nolint:errcheck // rows are written by Save
		rec.RiskReason = model.RiskReason(reason)

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Stats summarizes the stored history.
type Stats struct {
	Total int

	// ByLevel counts checks per risk level.
	ByLevel map[model.RiskLevel]int

	// EmailUnknown counts checks where no provider answered.
	EmailUnknown int

	// PasswordUnknown counts checks where the password lookup failed.
	PasswordUnknown int
}

// Stats aggregates the stored history.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByLevel: make(map[model.RiskLevel]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT risk_level, COUNT(*) FROM checks GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("failed to count checks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			level string
			count int
		)
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		parsed, err := model.ParseRiskLevel(level)
		if err != nil {
			continue
		}
		stats.ByLevel[parsed] += count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := `
	SELECT
		COALESCE(SUM(CASE WHEN email_status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN password_count IS NULL THEN 1 ELSE 0 END), 0)
	FROM checks
	`
	if err := s.db.QueryRowContext(ctx, query, model.BreachUnknown.String()).
		Scan(&stats.EmailUnknown, &stats.PasswordUnknown); err != nil {
		return nil, fmt.Errorf("failed to count unknown lookups: %w", err)
	}

	return stats, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
}

// parseTimestamp parses a stored timestamp, returning zero time on failure.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
