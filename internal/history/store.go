package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shelfpick/internal/media"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the history database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different
// application version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Disposition records what became of one surfaced item.
type Disposition string

const (
	DispositionOffered     Disposition = "offered"
	DispositionAccepted    Disposition = "accepted"
	DispositionRejected    Disposition = "rejected"
	DispositionBlacklisted Disposition = "blacklisted"
)

var dispositions = map[Disposition]struct{}{
	DispositionOffered:     {},
	DispositionAccepted:    {},
	DispositionRejected:    {},
	DispositionBlacklisted: {},
}

// Cycle is one recorded recommendation run.
type Cycle struct {
	ID        string
	Category  media.Category
	Requested int
	Selected  int
	CreatedAt time.Time
}

// CycleItem is one surfaced item within a cycle.
type CycleItem struct {
	Title       string
	Author      string
	Source      string
	Disposition Disposition
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordCycle journals one selection and returns the generated cycle ID.
func (s *Store) RecordCycle(ctx context.Context, category media.Category, requested int, items []media.Item) (string, error) {
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin cycle tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO cycles (id, category, requested, selected, created_at) VALUES (?, ?, ?, ?, ?)",
		id, string(category), requested, len(items), createdAt)
	if err != nil {
		return "", fmt.Errorf("insert cycle: %w", err)
	}

	for i, item := range items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cycle_items (cycle_id, position, title, author, source, disposition) VALUES (?, ?, ?, ?, ?, ?)",
			id, i, item.Title, item.Author, string(item.Source), string(DispositionOffered))
		if err != nil {
			return "", fmt.Errorf("insert cycle item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit cycle: %w", err)
	}
	return id, nil
}

// SetDisposition updates the recorded fate of one item in a cycle. The item
// is matched by title, case-insensitively.
func (s *Store) SetDisposition(ctx context.Context, cycleID, title string, disposition Disposition) error {
	if _, ok := dispositions[disposition]; !ok {
		return fmt.Errorf("unknown disposition %q", string(disposition))
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE cycle_items SET disposition = ? WHERE cycle_id = ? AND title = ? COLLATE NOCASE",
		string(disposition), cycleID, title)
	if err != nil {
		return fmt.Errorf("update disposition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no item titled %q in cycle %s", title, cycleID)
	}
	return nil
}

// RecentCycles returns up to limit cycles, newest first. A category narrows
// the listing; empty means all categories.
func (s *Store) RecentCycles(ctx context.Context, category media.Category, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT id, category, requested, selected, created_at FROM cycles"
	args := make([]any, 0, 2)
	if category != "" {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
		}
		query += " WHERE category = ?"
		args = append(args, string(category))
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var (
			cycle     Cycle
			category  string
			createdAt string
		)
		if err := rows.Scan(&cycle.ID, &category, &cycle.Requested, &cycle.Selected, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycle.Category = media.Category(category)
		cycle.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse cycle timestamp: %w", err)
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

// CycleItems lists the surfaced items of one cycle in selection order.
func (s *Store) CycleItems(ctx context.Context, cycleID string) ([]CycleItem, error) {
	if strings.TrimSpace(cycleID) == "" {
		return nil, errors.New("cycle id must not be empty")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT title, author, source, disposition FROM cycle_items WHERE cycle_id = ? ORDER BY position",
		cycleID)
	if err != nil {
		return nil, fmt.Errorf("query cycle items: %w", err)
	}
	defer rows.Close()

	var items []CycleItem
	for rows.Next() {
		var (
			item        CycleItem
			disposition string
		)
		if err := rows.Scan(&item.Title, &item.Author, &item.Source, &disposition); err != nil {
			return nil, fmt.Errorf("scan cycle item: %w", err)
		}
		item.Disposition = Disposition(disposition)
		items = append(items, item)
	}
	return items, rows.Err()
}

// PruneOlderThan deletes cycles created before the cutoff and reports how
// many were removed.
func (s *Store) PruneOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, "DELETE FROM cycles WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cycles: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
