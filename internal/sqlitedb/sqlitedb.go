// Package sqlitedb provides the SQLite connection handle for qlite.
package sqlitedb

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/qlite/qlite/internal/log"
)

// Config represents the configuration for a DB instance.
type Config struct {
	// Logger is the shared qlite logger.
	Logger log.Logger
	// Path is the path to the SQLite database file.
	Path string
	// CreateIfMissing creates the database file when it does not exist.
	// Without it, opening a missing file is an error.
	CreateIfMissing bool
	// DisableOptimizations disables the startup performance optimizations
	// for the underlying SQLite database.
	DisableOptimizations bool
}

// DB represents an open session against a single SQLite database file.
//
// It keeps two connections: a single-connection read-write handle that
// serializes writes, and a read-only handle for queries. At most one
// interactive transaction is open at a time.
type DB struct {
	Config
	isInitialized bool
	readWriteConn *sql.DB
	readOnlyConn  *sql.DB
	tx            *sql.Tx
	stats         Stats
	startedAt     time.Time
}

// Stats holds session counters for an open DB.
type Stats struct {
	Reads       int64
	Writes      int64
	Begins      int64
	Commits     int64
	Rollbacks   int64
	RowsFetched int64
}

func createDSN(dbPath string, isReadOnly bool, disableOptimizations bool) string {
	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", "5000")

	if isReadOnly {
		qp.Add("_query_only", "true")
	}

	if !disableOptimizations {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
		qp.Add("_cache_size", "10000")
	}

	return fmt.Sprintf("file:%s?%s", dbPath, qp.Encode())
}

// Open opens the database file described by config.
func Open(config Config) (*DB, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Path == "" {
		return nil, errors.New("database path is required")
	}

	if _, err := os.Stat(config.Path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat database file: %w", err)
		}
		if !config.CreateIfMissing {
			return nil, fmt.Errorf("database file %q does not exist", config.Path)
		}
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	readWriteDSN := createDSN(config.Path, false, config.DisableOptimizations)
	readOnlyDSN := createDSN(config.Path, true, config.DisableOptimizations)

	readWriteConn, err := sql.Open("sqlite3", readWriteDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open write connection: %w", err)
	}
	if err := readWriteConn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping write connection: %w", err)
	}
	readWriteConn.SetConnMaxIdleTime(0)
	readWriteConn.SetConnMaxLifetime(0)
	readWriteConn.SetMaxIdleConns(1)
	readWriteConn.SetMaxOpenConns(1)

	readOnlyConn, err := sql.Open("sqlite3", readOnlyDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open read connection: %w", err)
	}
	if err := readOnlyConn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping read connection: %w", err)
	}
	readOnlyConn.SetConnMaxIdleTime(0)
	readOnlyConn.SetConnMaxLifetime(0)
	readOnlyConn.SetMaxIdleConns(2)

	db := &DB{
		Config:        config,
		isInitialized: true,
		readWriteConn: readWriteConn,
		readOnlyConn:  readOnlyConn,
		startedAt:     time.Now(),
	}

	config.Logger.DebugNs(log.NsDatabase, "database opened", log.KV{"path": config.Path})
	return db, nil
}

// IsInitialized returns whether the DB instance is initialized.
func (db *DB) IsInitialized() bool {
	return db.isInitialized
}

// Path returns the path of the underlying database file.
func (db *DB) Path() string {
	return db.Config.Path
}

// InTransaction returns whether an interactive transaction is open.
func (db *DB) InTransaction() bool {
	return db.tx != nil
}

// Uptime returns how long this session has been open.
func (db *DB) Uptime() time.Duration {
	return time.Since(db.startedAt)
}

// GetStats returns a snapshot of the session counters.
func (db *DB) GetStats() Stats {
	return Stats{
		Reads:       atomic.LoadInt64(&db.stats.Reads),
		Writes:      atomic.LoadInt64(&db.stats.Writes),
		Begins:      atomic.LoadInt64(&db.stats.Begins),
		Commits:     atomic.LoadInt64(&db.stats.Commits),
		Rollbacks:   atomic.LoadInt64(&db.stats.Rollbacks),
		RowsFetched: atomic.LoadInt64(&db.stats.RowsFetched),
	}
}

// Close releases the connection handle. An interactive transaction
// still open at this point is rolled back.
func (db *DB) Close() error {
	if db.tx != nil {
		_ = db.tx.Rollback()
		db.tx = nil
	}

	if db.readWriteConn != nil {
		if err := db.readWriteConn.Close(); err != nil {
			return fmt.Errorf("failed to close write connection: %w", err)
		}
	}

	if db.readOnlyConn != nil {
		if err := db.readOnlyConn.Close(); err != nil {
			return fmt.Errorf("failed to close read connection: %w", err)
		}
	}

	db.Logger.DebugNs(log.NsDatabase, "database closed", log.KV{"path": db.Config.Path})
	return nil
}
