// Package csvimport builds SQLite tables from CSV flat files.
//
// The whole file is read up front, a column affinity is inferred from
// the data, and the table is created and filled in a single
// transaction. The file stem becomes the table name unless overridden.
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qlite/qlite/internal/log"
	"github.com/qlite/qlite/internal/sqlitedb"
	"github.com/schollz/progressbar/v3"
)

// Importer imports CSV files into an open database.
type Importer struct {
	// Logger is the shared qlite logger.
	Logger log.Logger
	// DB is the destination database.
	DB *sqlitedb.DB
	// ShowProgress renders a progress bar while rows are inserted.
	ShowProgress bool
}

// FileOptions tunes the import of a single file.
type FileOptions struct {
	// Table overrides the table name derived from the file stem.
	Table string
	// Delimiter is the CSV field separator, ',' when zero.
	Delimiter rune
}

// Summary describes a finished import.
type Summary struct {
	RunID    string
	Table    string
	Columns  []sqlitedb.Column
	Rows     int64
	Duration time.Duration
}

// ImportFile reads the given CSV file and writes its contents into a
// new table. The produced table holds exactly one row per CSV record.
func (imp *Importer) ImportFile(
	ctx context.Context, csvPath string, opts FileOptions,
) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()

	table := opts.Table
	if table == "" {
		table = TableNameFromPath(csvPath)
	}
	if table == "" {
		return Summary{}, fmt.Errorf("cannot derive a table name from %q", csvPath)
	}

	imp.Logger.InfoNs(log.NsImport, "import started", log.KV{
		"run":   runID,
		"file":  csvPath,
		"table": table,
	})

	header, records, err := readCSV(csvPath, opts.Delimiter)
	if err != nil {
		return Summary{}, err
	}

	columns, err := buildColumns(header, records)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", csvPath, err)
	}

	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(columns))
		for j, field := range record {
			row[j] = convertField(field, columns[j].Type)
		}
		rows[i] = row
	}

	var onRow func()
	if imp.ShowProgress {
		bar := progressbar.Default(
			int64(len(rows)), fmt.Sprintf("Importing %s", table),
		)
		onRow = func() { _ = bar.Add(1) }
		defer func() {
			_ = bar.Finish()
			_ = bar.Close()
		}()
	}

	if err := imp.DB.WriteTable(ctx, table, columns, rows, onRow); err != nil {
		return Summary{}, fmt.Errorf("failed to write table %q: %w", table, err)
	}

	summary := Summary{
		RunID:    runID,
		Table:    table,
		Columns:  columns,
		Rows:     int64(len(rows)),
		Duration: time.Since(start),
	}

	imp.Logger.InfoNs(log.NsImport, "import finished", log.KV{
		"run":      runID,
		"table":    summary.Table,
		"rows":     summary.Rows,
		"duration": summary.Duration.String(),
	})
	return summary, nil
}

// TableNameFromPath derives a table name from the file stem, so
// "data/surveys.csv" becomes "surveys".
func TableNameFromPath(csvPath string) string {
	base := filepath.Base(csvPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return NormalizeName(stem)
}

// readCSV reads the header and every record of the given file. The csv
// reader enforces that all records have as many fields as the header.
func readCSV(csvPath string, delimiter rune) ([]string, [][]string, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", csvPath, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty, expected at least a header row", csvPath)
	}

	return all[0], all[1:], nil
}

// buildColumns normalizes the header into column names and infers an
// affinity for each column from the data.
func buildColumns(header []string, records [][]string) ([]sqlitedb.Column, error) {
	columns := make([]sqlitedb.Column, len(header))
	seen := map[string]bool{}

	for i, raw := range header {
		name := NormalizeName(raw)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = true

		columns[i] = sqlitedb.Column{
			Name: name,
			Type: inferColumnAffinity(records, i).Value,
		}
	}

	return columns, nil
}
