package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mj1618/nirctl/internal/model"
)

// DefaultHistoryLimit caps the number of kept history entries.
const DefaultHistoryLimit = 100

// Store keeps frozen records and command history in a SQLite file.
type Store struct {
	db *sql.DB
}

// HistoryEntry is one executed command line.
type HistoryEntry struct {
	Command   string    `yaml:"command"    json:"command"`
	Success   bool      `yaml:"success"    json:"success"`
	ElapsedMs int64     `yaml:"elapsed_ms" json:"elapsed_ms"`
	Timestamp time.Time `yaml:"timestamp"  json:"timestamp"`
}

// Open opens (creating if needed) the database at path.
// DSN forms accepted:
//   - "/path/to/state.db"
//   - "sqlite:///path/to/state.db"
//   - ":memory:"
func Open(ctx context.Context, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty SQLite DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = dsn[len("sqlite://"):]
	}
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=3000"); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS frozen_records(
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL,
			group_name TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			recursive INTEGER NOT NULL DEFAULT 0,
			process_name TEXT NOT NULL DEFAULT '',
			class_name TEXT NOT NULL DEFAULT '',
			window_title TEXT NOT NULL DEFAULT '',
			handle INTEGER NOT NULL DEFAULT 0,
			pid INTEGER NOT NULL DEFAULT 0,
			frozen_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			success INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			ts INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadFrozen returns every persisted frozen record in freeze order.
func (s *Store) LoadFrozen(ctx context.Context) ([]model.FrozenRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, group_name, kind, value, recursive, process_name,
		       class_name, window_title, handle, pid, frozen_at
		FROM frozen_records ORDER BY frozen_at, rowid;`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.FrozenRecord
	for rows.Next() {
		var (
			r         model.FrozenRecord
			kind      string
			recursive int
			handle    int64
			frozenAt  int64
		)
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Group, &kind, &r.Target.Value, &recursive,
			&r.ProcessName, &r.ClassName, &r.WindowTitle, &handle, &r.PID, &frozenAt); err != nil {
			return nil, err
		}
		k, err := model.ParseTargetKind(kind)
		if err != nil {
			return nil, fmt.Errorf("frozen record %s: %w", r.ID, err)
		}
		r.Target.Kind = k
		r.Target.Recursive = recursive != 0
		r.Handle = model.Handle(handle)
		r.FrozenAt = time.UnixMilli(frozenAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveFrozen upserts records by ID.
func (s *Store) SaveFrozen(ctx context.Context, recs ...model.FrozenRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range recs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO frozen_records(id, batch_id, group_name, kind, value, recursive,
				process_name, class_name, window_title, handle, pid, frozen_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				batch_id=excluded.batch_id, group_name=excluded.group_name,
				kind=excluded.kind, value=excluded.value, recursive=excluded.recursive,
				process_name=excluded.process_name, class_name=excluded.class_name,
				window_title=excluded.window_title, handle=excluded.handle,
				pid=excluded.pid, frozen_at=excluded.frozen_at;`,
			r.ID, r.BatchID, r.Group, r.Target.Kind.String(), r.Target.Value, boolInt(r.Target.Recursive),
			r.ProcessName, r.ClassName, r.WindowTitle, int64(r.Handle), r.PID, r.FrozenAt.UnixMilli())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteFrozen removes records by ID. Unknown IDs are ignored.
func (s *Store) DeleteFrozen(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	_, err := s.db.ExecContext(ctx, "DELETE FROM frozen_records WHERE id IN ("+placeholders+");", args...)
	return err
}

// RecordHistory appends an entry and trims the table to the newest limit
// entries. A limit <= 0 uses DefaultHistoryLimit.
func (s *Store) RecordHistory(ctx context.Context, e HistoryEntry, limit int) error {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO history(command, success, elapsed_ms, ts) VALUES(?, ?, ?, ?);`,
		e.Command, boolInt(e.Success), e.ElapsedMs, e.Timestamp.UnixMilli()); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?);`, limit)
	return err
}

// History returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	q := `SELECT command, success, elapsed_ms, ts FROM history ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []HistoryEntry{}
	for rows.Next() {
		var (
			e       HistoryEntry
			success int
			ts      int64
		)
		if err := rows.Scan(&e.Command, &success, &e.ElapsedMs, &ts); err != nil {
			return nil, err
		}
		e.Success = success != 0
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearHistory deletes all history entries.
func (s *Store) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history;`)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
