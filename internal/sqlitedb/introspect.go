package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnInfo describes a single column as reported by PRAGMA table_info.
type ColumnInfo struct {
	CID          int
	Name         string
	Type         string
	NotNull      bool
	DefaultValue sql.NullString
	PrimaryKey   bool
}

// IndexInfo describes an index as stored in sqlite_master.
type IndexInfo struct {
	Name  string
	Table string
	SQL   sql.NullString
}

// SchemaEntry is a stored CREATE statement from sqlite_master.
type SchemaEntry struct {
	Type string
	Name string
	SQL  string
}

// QuoteIdentifier quotes an identifier for safe interpolation into SQL.
// Identifiers cannot be bound as parameters, so PRAGMA and DDL statements
// have to build them in.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Tables lists the user tables in the database, excluding SQLite
// internals.
func (db *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := db.readOnlyConn.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns lists the fields of the given table.
func (db *DB) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdentifier(table))
	rows, err := db.readOnlyConn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get table info: %w", err)
	}
	defer rows.Close()

	columns := []ColumnInfo{}
	for rows.Next() {
		var col ColumnInfo
		var notNull, primaryKey int
		if err := rows.Scan(
			&col.CID, &col.Name, &col.Type, &notNull, &col.DefaultValue, &primaryKey,
		); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = primaryKey != 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return columns, nil
}

// Indexes lists the indexes in the database, optionally restricted to a
// single table. Send an empty table name to list all indexes.
func (db *DB) Indexes(ctx context.Context, table string) ([]IndexInfo, error) {
	query := `SELECT name, tbl_name, sql FROM sqlite_master
		WHERE type = 'index' ORDER BY tbl_name, name`
	args := []any{}
	if table != "" {
		query = `SELECT name, tbl_name, sql FROM sqlite_master
			WHERE type = 'index' AND tbl_name = ? ORDER BY name`
		args = append(args, table)
	}

	rows, err := db.readOnlyConn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	defer rows.Close()

	indexes := []IndexInfo{}
	for rows.Next() {
		var in IndexInfo
		if err := rows.Scan(&in.Name, &in.Table, &in.SQL); err != nil {
			return nil, fmt.Errorf("failed to scan index info: %w", err)
		}
		indexes = append(indexes, in)
	}
	return indexes, rows.Err()
}

// Schema returns the stored CREATE statements, optionally restricted to
// the objects of a single table. Send an empty table name for the whole
// database.
func (db *DB) Schema(ctx context.Context, table string) ([]SchemaEntry, error) {
	query := `SELECT type, name, sql FROM sqlite_master
		WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'
		ORDER BY tbl_name, type DESC, name`
	args := []any{}
	if table != "" {
		query = `SELECT type, name, sql FROM sqlite_master
			WHERE sql IS NOT NULL AND tbl_name = ?
			ORDER BY type DESC, name`
		args = append(args, table)
	}

	rows, err := db.readOnlyConn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer rows.Close()

	entries := []SchemaEntry{}
	for rows.Next() {
		var entry SchemaEntry
		if err := rows.Scan(&entry.Type, &entry.Name, &entry.SQL); err != nil {
			return nil, fmt.Errorf("failed to scan schema entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of rows in the given table.
func (db *DB) Count(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", QuoteIdentifier(table))

	var count int64
	if err := db.readOnlyConn.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}
