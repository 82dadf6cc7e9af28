package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"

	_ "github.com/mattn/go-sqlite3"
)

var logCtx = logging.PackageCtx("db")

type SQLiteStorage struct {
	db *sql.DB
}

var (
	_ Storage               = (*SQLiteStorage)(nil)
	_ switcher.PackageStore = (*LayoutByPackage)(nil)
)

func NewStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db}
}

func InitDBStorage(db *sql.DB) error {
	statements := []string{
		`create table if not exists keypresses(
			keyboard text, key_index int, code int, tap_count int, kind text, content text, ts datetime);`,
		`create index if not exists keypresses_tsix on keypresses (ts ASC);`,
		`create table if not exists layout_by_package(entry text primary key);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("could not run %q: %w", stmt, err)
		}
	}

	return nil
}

// ConnectDB opens (and creates if needed) the sqlite database at path.
func ConnectDB(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s as sqlite file: %w", path, err)
	}

	// every connection gets its own :memory: database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := InitDBStorage(db); err != nil {
		db.Close()

		return nil, err
	}

	return NewStorage(db), nil
}

func (s *SQLiteStorage) Store(event *model.KeyEvent) error {
	_, err := s.db.Exec(`insert into keypresses(keyboard, key_index, code, tap_count, kind, content, ts)
	    values(?, ?, ?, ?, ?, ?, datetime('now', 'subsec'))`,
		event.KeyboardID, event.KeyIndex, event.Code, event.TapCount, string(event.Kind), event.Text)
	if err != nil {
		return fmt.Errorf("could not store key event: %w", err)
	}

	return nil
}

// GatherAll counts the sent keys per keyboard key.
func (s *SQLiteStorage) GatherAll() ([]model.KeyCount, error) {
	rows, err := s.db.Query(
		`select keyboard, key_index, count(*) as cnt
        from keypresses
        where kind in (?, ?, ?)
        group by keyboard, key_index
        order by keyboard, key_index`,
		string(model.EventKey), string(model.EventLongPress), string(model.EventText))
	if err != nil {
		return nil, fmt.Errorf("could not query key counts: %w", err)
	}

	defer rows.Close()

	result := make([]model.KeyCount, 0)

	for rows.Next() {
		var c model.KeyCount

		if err := rows.Scan(&c.KeyboardID, &c.KeyIndex, &c.Count); err != nil {
			return nil, fmt.Errorf("could not read key count: %w", err)
		}

		result = append(result, c)
	}

	return result, rows.Err()
}

// AllIterator walks every stored event in insertion order.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	rows, err := s.db.Query(
		`select keyboard, key_index, code, tap_count, kind, content, ts
        from keypresses
        order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query key events: %w", err)
	}

	return func(yield func(model.KeyEventWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				e    model.KeyEventWithTimestamp
				kind string
				ts   time.Time
			)

			err := rows.Scan(&e.KeyboardID, &e.KeyIndex, &e.Code, &e.TapCount, &kind, &e.Text, &ts)
			if err != nil {
				slog.ErrorContext(logCtx, "Could not read key event", "error", err)

				return
			}

			e.Kind = model.EventKind(kind)
			e.Timestamp = ts

			if !yield(e) {
				return
			}
		}
	}, nil
}

// LayoutByPackage persists the keyboard last used in each application, one
// "package -> keyboard" entry per row.
type LayoutByPackage struct {
	db *sql.DB
}

func (s *SQLiteStorage) LayoutByPackage() *LayoutByPackage {
	return &LayoutByPackage{db: s.db}
}

func (l *LayoutByPackage) Load() (map[string]string, error) {
	rows, err := l.db.Query(`select entry from layout_by_package order by entry`)
	if err != nil {
		return nil, fmt.Errorf("could not query package mapping: %w", err)
	}

	defer rows.Close()

	var entries []string

	for rows.Next() {
		var entry string

		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("could not read package mapping: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read package mapping: %w", err)
	}

	return switcher.DecodeMapping(entries), nil
}

// Store replaces the stored mapping with mapping.
func (l *LayoutByPackage) Store(mapping map[string]string) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	if _, err := tx.Exec(`delete from layout_by_package`); err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("could not clear package mapping: %w", err)
	}

	for _, entry := range switcher.EncodeMapping(mapping) {
		if _, err := tx.Exec(`insert into layout_by_package(entry) values(?)`, entry); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("could not store package mapping entry %q: %w", entry, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not store package mapping: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.WarnContext(logCtx, "Could not close database", "error", err)
	}
}
