package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"
	"github.com/orsinium-labs/enum"
)

// Query represents a query to be executed.
type Query struct {
	SQL    string
	Params []any
}

// WriteResult represents the result of a write query.
type WriteResult struct {
	LastInsertID int64
	RowsAffected int64
}

// ReadResult represents the fully scanned result of a read query.
type ReadResult struct {
	Columns []string
	Types   []string
	Values  [][]any
}

// QueryResult represents the result of a query.
type QueryResult struct {
	Type        QueryType
	WriteResult WriteResult
	ReadResult  ReadResult
}

// QueryType represents the type of a given SQLite query.
type QueryType = enum.Member[string]

var (
	QueryTypeUnknown  = QueryType{Value: "unknown"}
	QueryTypeRead     = QueryType{Value: "read"}
	QueryTypeWrite    = QueryType{Value: "write"}
	QueryTypeBegin    = QueryType{Value: "begin"}
	QueryTypeCommit   = QueryType{Value: "commit"}
	QueryTypeRollback = QueryType{Value: "rollback"}
)

// detectQueryType detects the type of query between read, write, begin,
// commit, and rollback.
func (db *DB) detectQueryType(ctx context.Context, query string) (QueryType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(query))

	switch {
	case strings.HasPrefix(trimmed, "begin"):
		return QueryTypeBegin, nil
	case strings.HasPrefix(trimmed, "commit"), strings.HasPrefix(trimmed, "end transaction"):
		return QueryTypeCommit, nil
	case strings.HasPrefix(trimmed, "rollback"):
		return QueryTypeRollback, nil
	}

	conn, err := db.readOnlyConn.Conn(ctx)
	if err != nil {
		return QueryTypeUnknown, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	isReadOnly := false
	err = conn.Raw(func(driverConn any) error {
		sqliteConn := driverConn.(*sqlite3.SQLiteConn)
		drvStmt, err := sqliteConn.Prepare(query)
		if err != nil {
			return err
		}
		defer drvStmt.Close()
		sqliteStmt := drvStmt.(*sqlite3.SQLiteStmt)
		isReadOnly = sqliteStmt.Readonly()
		return nil
	})
	if err != nil {
		return QueryTypeUnknown, fmt.Errorf("failed to prepare statement: %w", err)
	}

	if isReadOnly {
		return QueryTypeRead, nil
	}
	return QueryTypeWrite, nil
}

// Execute runs a single SQL statement and returns its result.
func (db *DB) Execute(ctx context.Context, query Query) (QueryResult, error) {
	typeOfQuery, err := db.detectQueryType(ctx, query.SQL)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to detect query type: %w", err)
	}

	switch typeOfQuery {
	case QueryTypeRead:
		return db.executeReadQuery(ctx, query)
	case QueryTypeBegin:
		return db.executeBeginQuery()
	case QueryTypeCommit:
		return db.executeCommitQuery()
	case QueryTypeRollback:
		return db.executeRollbackQuery()
	case QueryTypeWrite:
		return db.executeWriteQuery(ctx, query)
	}

	return QueryResult{}, fmt.Errorf("unknown query type: %s", typeOfQuery.Value)
}

// executeBeginQuery opens the interactive transaction.
func (db *DB) executeBeginQuery() (QueryResult, error) {
	if db.tx != nil {
		return QueryResult{}, errors.New("a transaction is already open")
	}

	tx, err := db.readWriteConn.Begin()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	db.tx = tx

	atomic.AddInt64(&db.stats.Begins, 1)
	return QueryResult{Type: QueryTypeBegin}, nil
}

// executeCommitQuery commits the interactive transaction.
func (db *DB) executeCommitQuery() (QueryResult, error) {
	if db.tx == nil {
		return QueryResult{}, errors.New("no transaction is open")
	}
	if err := db.tx.Commit(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	db.tx = nil

	atomic.AddInt64(&db.stats.Commits, 1)
	return QueryResult{Type: QueryTypeCommit}, nil
}

// executeRollbackQuery rolls back the interactive transaction.
func (db *DB) executeRollbackQuery() (QueryResult, error) {
	if db.tx == nil {
		return QueryResult{}, errors.New("no transaction is open")
	}
	if err := db.tx.Rollback(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to rollback transaction: %w", err)
	}
	db.tx = nil

	atomic.AddInt64(&db.stats.Rollbacks, 1)
	return QueryResult{Type: QueryTypeRollback}, nil
}

// executeWriteQuery executes a write query on the interactive
// transaction if one is open, otherwise on the write connection.
func (db *DB) executeWriteQuery(ctx context.Context, query Query) (QueryResult, error) {
	var result sql.Result
	var err error

	if db.tx != nil {
		result, err = db.tx.ExecContext(ctx, query.SQL, query.Params...)
	} else {
		result, err = db.readWriteConn.ExecContext(ctx, query.SQL, query.Params...)
	}
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to execute write query: %w", err)
	}

	lastInsertId, err := result.LastInsertId()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	atomic.AddInt64(&db.stats.Writes, 1)
	return QueryResult{
		Type: QueryTypeWrite,
		WriteResult: WriteResult{
			LastInsertID: lastInsertId,
			RowsAffected: rowsAffected,
		},
	}, nil
}

// executeReadQuery executes a read query and scans every row.
func (db *DB) executeReadQuery(ctx context.Context, query Query) (QueryResult, error) {
	var result *sql.Rows
	var err error

	if db.tx != nil {
		result, err = db.tx.QueryContext(ctx, query.SQL, query.Params...)
	} else {
		result, err = db.readOnlyConn.QueryContext(ctx, query.SQL, query.Params...)
	}
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to execute read query: %w", err)
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to get columns: %w", err)
	}

	types, typesOk := []string{}, false
	values := [][]any{}
	for result.Next() {
		row := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range scans {
			scans[i] = &row[i]
		}

		if err = result.Scan(scans...); err != nil {
			return QueryResult{}, fmt.Errorf("failed to scan row: %w", err)
		}

		if !typesOk {
			enhancedTypes, err := getColumnTypes(result, row)
			if err != nil {
				return QueryResult{}, fmt.Errorf("failed to get column types: %w", err)
			}
			types, typesOk = enhancedTypes, true
		}

		values = append(values, row)
	}
	if err := result.Err(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	atomic.AddInt64(&db.stats.Reads, 1)
	atomic.AddInt64(&db.stats.RowsFetched, int64(len(values)))
	return QueryResult{
		Type: QueryTypeRead,
		ReadResult: ReadResult{
			Columns: columns,
			Types:   types,
			Values:  values,
		},
	}, nil
}

// getColumnTypes returns the column types for a read query.
//
// It tries to get the declared column types from the result, and for
// columns without one (expressions, aggregates) it infers the type from
// the first row following the SQLite datatypes documentation
// https://www.sqlite.org/datatype3.html.
func getColumnTypes(result *sql.Rows, singleRow []any) ([]string, error) {
	types, err := result.ColumnTypes()
	if err != nil {
		return []string{}, fmt.Errorf("failed to get column types: %w", err)
	}

	typeNames := make([]string, len(types))
	hasEmptyTypes := false
	for i, t := range types {
		typeNames[i] = strings.ToLower(t.DatabaseTypeName())
		if typeNames[i] == "" {
			hasEmptyTypes = true
		}
	}

	if !hasEmptyTypes {
		return typeNames, nil
	}

	for i := range typeNames {
		if typeNames[i] != "" {
			continue
		}

		switch singleRow[i].(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			typeNames[i] = "integer"
		case float32, float64:
			typeNames[i] = "real"
		case bool:
			typeNames[i] = "boolean"
		case []byte:
			typeNames[i] = "blob"
		case string:
			typeNames[i] = "text"
		default:
			typeNames[i] = ""
		}
	}

	return typeNames, nil
}
