// Package journal provides a SQLite-backed record of completed
// repository operations. Every delegated operation that mutates state
// (init, clone, stage, commit, branch, tag, checkout) leaves one row
// behind; the history command and the serve-mode API read them back.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Entry is one recorded operation.
type Entry struct {
	ID        string            `json:"id"`
	Op        string            `json:"op"`
	RepoPath  string            `json:"repo_path"`
	Detail    map[string]string `json:"detail,omitempty"`
	Result    string            `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Journal manages the SQLite operation journal.
type Journal struct {
	db     *sql.DB
	dbPath string
}

// schemaVersion is incremented when the schema changes. A version bump
// drops and recreates the operations table: the journal is a local
// convenience record, not durable data worth migrating.
const schemaVersion = 1

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Journal{db: db, dbPath: path}, nil
}

// createSchema creates the database schema, handling version changes.
func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS journal_meta (key TEXT PRIMARY KEY, value TEXT)`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow("SELECT value FROM journal_meta WHERE key = 'schema_version'")
	if err := row.Scan(&currentVersion); err != nil {
		// No version found, this is a new database
		currentVersion = 0
	}

	if currentVersion != 0 && currentVersion < schemaVersion {
		log.Info().
			Int("old_version", currentVersion).
			Int("new_version", schemaVersion).
			Msg("schema version changed, rebuilding operation journal")

		_, _ = db.Exec("DROP TABLE IF EXISTS operations")
	}

	schema := `
		CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			op TEXT NOT NULL,
			repo_path TEXT NOT NULL,
			detail TEXT,
			result TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_operations_repo_created
			ON operations(repo_path, created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO journal_meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

// Record writes one completed operation. A missing ID or timestamp is
// filled in.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var detail []byte
	if len(entry.Detail) > 0 {
		var err error
		detail, err = json.Marshal(entry.Detail)
		if err != nil {
			return err
		}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO operations (id, op, repo_path, detail, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Op,
		entry.RepoPath,
		string(detail),
		entry.Result,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	log.Debug().
		Str("op", entry.Op).
		Str("repo", entry.RepoPath).
		Str("result", entry.Result).
		Msg("journaled operation")
	return nil
}

// Recent returns the most recent entries for a repository, newest
// first. A limit of zero or less returns everything.
func (j *Journal) Recent(ctx context.Context, repoPath string, limit int) ([]Entry, error) {
	start := time.Now()

	query := `
		SELECT id, op, repo_path, detail, result, created_at
		FROM operations
		WHERE repo_path = ?
		ORDER BY created_at DESC
	`
	args := []interface{}{repoPath}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detail, createdAt string
		if err := rows.Scan(&e.ID, &e.Op, &e.RepoPath, &detail, &e.Result, &createdAt); err != nil {
			continue
		}
		if detail != "" {
			_ = json.Unmarshal([]byte(detail), &e.Detail)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}

	log.Debug().
		Int("count", len(entries)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("read journal entries")

	return entries, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal database path.
func (j *Journal) Path() string {
	return j.dbPath
}
