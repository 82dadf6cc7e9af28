package db

import (
	"fmt"
	"log/slog"
)

const tsLayout = "2006-01-02 15:04:05.000"

// Merge copies the events of every input into output, keeping their
// timestamps. The copy is done in a single transaction.
func Merge(inputs []Storage, output *SQLiteStorage) error {
	tx, err := output.db.Begin()
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	stmt, err := tx.Prepare(`insert into keypresses(keyboard, key_index, code, tap_count, kind, content, ts)
	    values(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("could not prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, input := range inputs {
		events, err := input.AllIterator()
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("could not read input %d: %w", i, err)
		}

		n := 0

		for e := range events {
			_, err := stmt.Exec(e.KeyboardID, e.KeyIndex, e.Code, e.TapCount, string(e.Kind), e.Text,
				e.Timestamp.UTC().Format(tsLayout))
			if err != nil {
				_ = tx.Rollback()

				return fmt.Errorf("could not copy event from input %d: %w", i, err)
			}

			n++
		}

		slog.InfoContext(logCtx, "Merged input", "input", i, "events", n)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit merge: %w", err)
	}

	return nil
}
