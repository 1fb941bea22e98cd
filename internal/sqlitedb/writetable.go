package sqlitedb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// Column describes one column of a table to be written.
type Column struct {
	Name string
	// Type is the SQLite type affinity for the column (INTEGER, REAL,
	// TEXT, ...).
	Type string
}

// WriteTable creates a new table from the given columns and inserts all
// rows into it inside a single transaction. SQLite DDL is transactional,
// so a failed write leaves no table behind.
//
// onRow, if not nil, is called after each inserted row.
func (db *DB) WriteTable(
	ctx context.Context, table string, columns []Column, rows [][]any, onRow func(),
) error {
	if table == "" {
		return fmt.Errorf("table name is required")
	}
	if len(columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	tx, err := db.readWriteConn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	colDefs := make([]string, len(columns))
	for i, col := range columns {
		colDefs[i] = fmt.Sprintf("%s %s", QuoteIdentifier(col.Name), col.Type)
	}
	createStmt := fmt.Sprintf(
		"CREATE TABLE %s (%s)",
		QuoteIdentifier(table), strings.Join(colDefs, ", "),
	)
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("failed to create table %q: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insertStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)", QuoteIdentifier(table), placeholders,
	))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf(
				"row %d has %d values, expected %d", i+1, len(row), len(columns),
			)
		}
		if _, err := insertStmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		if onRow != nil {
			onRow()
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table write: %w", err)
	}

	atomic.AddInt64(&db.stats.Writes, int64(len(rows))+1)
	return nil
}
