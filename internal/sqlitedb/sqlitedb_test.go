package sqlitedb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qlite/qlite/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Logger:          log.NewLogger(os.Stderr),
		Path:            filepath.Join(t.TempDir(), "test.sqlite"),
		CreateIfMissing: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// seedSurveyData creates the species, plots, and surveys tables used
// across the read query tests.
func seedSurveyData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE species (
			species_id TEXT PRIMARY KEY,
			genus TEXT,
			species TEXT,
			taxa TEXT
		)`,
		`CREATE TABLE plots (
			plot_id INTEGER PRIMARY KEY,
			plot_type TEXT
		)`,
		`CREATE TABLE surveys (
			record_id INTEGER PRIMARY KEY,
			month INTEGER,
			day INTEGER,
			year INTEGER,
			plot_id INTEGER REFERENCES plots(plot_id),
			species_id TEXT REFERENCES species(species_id),
			sex TEXT,
			hindfoot_length REAL,
			weight REAL
		)`,
		`INSERT INTO species VALUES
			('DM', 'Dipodomys', 'merriami', 'Rodent'),
			('DO', 'Dipodomys', 'ordii', 'Rodent'),
			('NL', 'Neotoma', 'albigula', 'Rodent')`,
		`INSERT INTO plots VALUES
			(1, 'Spectab exclosure'),
			(2, 'Control')`,
		`INSERT INTO surveys VALUES
			(1, 7, 16, 1977, 2, 'NL', 'M', 32, 121),
			(2, 7, 16, 1977, 2, 'DM', 'F', 37, 42),
			(3, 8, 19, 1978, 1, 'DM', 'M', 36, 40),
			(4, 8, 19, 1978, 2, 'DO', 'F', 35, 53),
			(5, 9, 13, 1978, 1, 'DM', 'M', 35, 44)`,
	}
	for _, stmt := range stmts {
		_, err := db.Execute(ctx, Query{SQL: stmt})
		require.NoError(t, err)
	}
}

func TestOpen(t *testing.T) {
	t.Run("MissingFileIsAnError", func(t *testing.T) {
		_, err := Open(Config{
			Logger: log.NewLogger(os.Stderr),
			Path:   filepath.Join(t.TempDir(), "nope.sqlite"),
		})
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("CreateIfMissing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "new.sqlite")
		db, err := Open(Config{
			Logger:          log.NewLogger(os.Stderr),
			Path:            path,
			CreateIfMissing: true,
		})
		require.NoError(t, err)
		defer db.Close()

		assert.True(t, db.IsInitialized())
		assert.FileExists(t, path)
	})

	t.Run("RequiresLogger", func(t *testing.T) {
		_, err := Open(Config{Path: "x.sqlite"})
		assert.ErrorContains(t, err, "logger is required")
	})

	t.Run("RequiresPath", func(t *testing.T) {
		_, err := Open(Config{Logger: log.NewLogger(os.Stderr)})
		assert.ErrorContains(t, err, "path is required")
	})
}

func TestExecuteReadQueries(t *testing.T) {
	db := newTestDB(t)
	seedSurveyData(t, db)
	ctx := context.Background()

	t.Run("DistinctPairs", func(t *testing.T) {
		res, err := db.Execute(ctx, Query{
			SQL: "SELECT DISTINCT year, species_id FROM surveys ORDER BY year, species_id",
		})
		require.NoError(t, err)

		assert.Equal(t, QueryTypeRead, res.Type)
		assert.Equal(t, []string{"year", "species_id"}, res.ReadResult.Columns)
		assert.Len(t, res.ReadResult.Values, 4)
	})

	t.Run("CountGroupBy", func(t *testing.T) {
		res, err := db.Execute(ctx, Query{
			SQL: "SELECT year, COUNT(*) AS n FROM surveys GROUP BY year ORDER BY year",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"year", "n"}, res.ReadResult.Columns)
		require.Len(t, res.ReadResult.Values, 2)
		assert.EqualValues(t, 1977, res.ReadResult.Values[0][0])
		assert.EqualValues(t, 2, res.ReadResult.Values[0][1])
		assert.EqualValues(t, 3, res.ReadResult.Values[1][1])
	})

	t.Run("ThreeTableJoin", func(t *testing.T) {
		res, err := db.Execute(ctx, Query{
			SQL: `SELECT surveys.year, species.genus, plots.plot_type
				FROM surveys
				JOIN species ON surveys.species_id = species.species_id
				JOIN plots ON surveys.plot_id = plots.plot_id
				WHERE plots.plot_type = 'Control'
				ORDER BY surveys.record_id`,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"year", "genus", "plot_type"}, res.ReadResult.Columns)
		assert.Len(t, res.ReadResult.Values, 3)
	})

	t.Run("Params", func(t *testing.T) {
		res, err := db.Execute(ctx, Query{
			SQL:    "SELECT record_id FROM surveys WHERE species_id = ?",
			Params: []any{"DM"},
		})
		require.NoError(t, err)
		assert.Len(t, res.ReadResult.Values, 3)
	})

	t.Run("InferredAggregateType", func(t *testing.T) {
		res, err := db.Execute(ctx, Query{SQL: "SELECT COUNT(*) FROM surveys"})
		require.NoError(t, err)
		require.Len(t, res.ReadResult.Types, 1)
		assert.Equal(t, "integer", res.ReadResult.Types[0])
	})

	t.Run("MalformedSQL", func(t *testing.T) {
		_, err := db.Execute(ctx, Query{SQL: "SELEC * FROM surveys"})
		assert.Error(t, err)
	})
}

func TestExecuteWriteQueries(t *testing.T) {
	db := newTestDB(t)
	seedSurveyData(t, db)
	ctx := context.Background()

	res, err := db.Execute(ctx, Query{
		SQL:    "UPDATE surveys SET weight = weight + 1 WHERE year = ?",
		Params: []any{1978},
	})
	require.NoError(t, err)

	assert.Equal(t, QueryTypeWrite, res.Type)
	assert.EqualValues(t, 3, res.WriteResult.RowsAffected)
}

func TestInteractiveTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitKeepsChanges", func(t *testing.T) {
		db := newTestDB(t)
		seedSurveyData(t, db)

		_, err := db.Execute(ctx, Query{SQL: "BEGIN"})
		require.NoError(t, err)
		assert.True(t, db.InTransaction())

		_, err = db.Execute(ctx, Query{SQL: "DELETE FROM surveys WHERE year = 1977"})
		require.NoError(t, err)

		_, err = db.Execute(ctx, Query{SQL: "COMMIT"})
		require.NoError(t, err)
		assert.False(t, db.InTransaction())

		count, err := db.Count(ctx, "surveys")
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("RollbackDiscardsChanges", func(t *testing.T) {
		db := newTestDB(t)
		seedSurveyData(t, db)

		_, err := db.Execute(ctx, Query{SQL: "BEGIN"})
		require.NoError(t, err)

		_, err = db.Execute(ctx, Query{SQL: "DELETE FROM surveys"})
		require.NoError(t, err)

		// Reads inside the transaction see the pending delete.
		res, err := db.Execute(ctx, Query{SQL: "SELECT COUNT(*) AS n FROM surveys"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.ReadResult.Values[0][0])

		_, err = db.Execute(ctx, Query{SQL: "ROLLBACK"})
		require.NoError(t, err)

		count, err := db.Count(ctx, "surveys")
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})

	t.Run("DoubleBegin", func(t *testing.T) {
		db := newTestDB(t)

		_, err := db.Execute(ctx, Query{SQL: "BEGIN"})
		require.NoError(t, err)

		_, err = db.Execute(ctx, Query{SQL: "BEGIN"})
		assert.ErrorContains(t, err, "already open")
	})

	t.Run("CommitWithoutBegin", func(t *testing.T) {
		db := newTestDB(t)

		_, err := db.Execute(ctx, Query{SQL: "COMMIT"})
		assert.ErrorContains(t, err, "no transaction is open")
	})
}

func TestIntrospection(t *testing.T) {
	db := newTestDB(t)
	seedSurveyData(t, db)
	ctx := context.Background()

	t.Run("Tables", func(t *testing.T) {
		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"plots", "species", "surveys"}, tables)
	})

	t.Run("Columns", func(t *testing.T) {
		columns, err := db.Columns(ctx, "species")
		require.NoError(t, err)
		require.Len(t, columns, 4)

		assert.Equal(t, "species_id", columns[0].Name)
		assert.Equal(t, "TEXT", columns[0].Type)
		assert.True(t, columns[0].PrimaryKey)
		assert.Equal(t, "taxa", columns[3].Name)
		assert.False(t, columns[3].PrimaryKey)
	})

	t.Run("ColumnsOfMissingTable", func(t *testing.T) {
		_, err := db.Columns(ctx, "nonexistent")
		assert.ErrorContains(t, err, "no such table")
	})

	t.Run("Indexes", func(t *testing.T) {
		_, err := db.Execute(ctx, Query{
			SQL: "CREATE INDEX surveys_year ON surveys(year)",
		})
		require.NoError(t, err)

		indexes, err := db.Indexes(ctx, "surveys")
		require.NoError(t, err)

		names := []string{}
		for _, in := range indexes {
			names = append(names, in.Name)
		}
		assert.Contains(t, names, "surveys_year")
	})

	t.Run("Schema", func(t *testing.T) {
		entries, err := db.Schema(ctx, "species")
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "table", entries[0].Type)
		assert.Contains(t, entries[0].SQL, "CREATE TABLE species")
	})

	t.Run("Count", func(t *testing.T) {
		count, err := db.Count(ctx, "surveys")
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})
}

func TestWriteTable(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesAndFills", func(t *testing.T) {
		db := newTestDB(t)

		columns := []Column{
			{Name: "species_id", Type: "TEXT"},
			{Name: "genus", Type: "TEXT"},
			{Name: "taxa", Type: "TEXT"},
		}
		rows := [][]any{
			{"DM", "Dipodomys", "Rodent"},
			{"NL", "Neotoma", "Rodent"},
		}

		rowsSeen := 0
		err := db.WriteTable(ctx, "species", columns, rows, func() { rowsSeen++ })
		require.NoError(t, err)
		assert.Equal(t, 2, rowsSeen)

		count, err := db.Count(ctx, "species")
		require.NoError(t, err)
		assert.EqualValues(t, len(rows), count)
	})

	t.Run("RowWidthMismatch", func(t *testing.T) {
		db := newTestDB(t)

		err := db.WriteTable(ctx, "bad",
			[]Column{{Name: "a", Type: "TEXT"}},
			[][]any{{"x", "extra"}}, nil,
		)
		assert.ErrorContains(t, err, "expected 1")

		// The failed write must not leave the table behind.
		tables, err := db.Tables(ctx)
		require.NoError(t, err)
		assert.NotContains(t, tables, "bad")
	})

	t.Run("ExistingTable", func(t *testing.T) {
		db := newTestDB(t)
		seedSurveyData(t, db)

		err := db.WriteTable(ctx, "species",
			[]Column{{Name: "a", Type: "TEXT"}}, nil, nil,
		)
		assert.Error(t, err)
	})
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	seedSurveyData(t, db)
	ctx := context.Background()

	_, err := db.Execute(ctx, Query{SQL: "SELECT * FROM surveys"})
	require.NoError(t, err)

	stats := db.GetStats()
	assert.EqualValues(t, 1, stats.Reads)
	assert.EqualValues(t, 5, stats.RowsFetched)
	assert.EqualValues(t, 6, stats.Writes) // 3 CREATEs + 3 INSERTs from seeding
}
