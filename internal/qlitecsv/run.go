package qlitecsv

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/qlite/qlite/internal/csvimport"
	"github.com/qlite/qlite/internal/log"
	"github.com/qlite/qlite/internal/qlitecsv/config"
	"github.com/qlite/qlite/internal/sqlitedb"
	"github.com/qlite/qlite/internal/version"
)

// Run runs the qlitecsv importer.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	fmt.Println(version.ImporterVersion())
	fmt.Println()

	logger := log.NewLogger(os.Stderr)
	db, err := sqlitedb.Open(sqlitedb.Config{
		Logger:          logger,
		Path:            conf.Database,
		CreateIfMissing: true,
	})
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", log.KV{"error": err.Error()})
		}
	}()

	importer := &csvimport.Importer{
		Logger:       logger,
		DB:           db,
		ShowProgress: !conf.NoProgress,
	}

	summaries := []csvimport.Summary{}
	failed := 0
	for _, csvPath := range conf.CSVPaths {
		summary, err := importer.ImportFile(ctx, csvPath, csvimport.FileOptions{
			Table:     conf.Table,
			Delimiter: conf.ParsedDelimiter,
		})
		if err != nil {
			if !conf.KeepGoing {
				return fmt.Errorf("error importing %s: %w", csvPath, err)
			}
			logger.ErrorNs(log.NsImport, "import failed", log.KV{
				"file":  csvPath,
				"error": err.Error(),
			})
			failed++
			continue
		}
		summaries = append(summaries, summary)
	}

	printSummaries(conf.Database, summaries)

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(conf.CSVPaths))
	}
	return nil
}

func printSummaries(database string, summaries []csvimport.Summary) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	tw.AppendHeader(table.Row{"Table", "Columns", "Rows", "Duration"})

	var totalRows int64
	for _, s := range summaries {
		tw.AppendRow(table.Row{s.Table, len(s.Columns), s.Rows, s.Duration})
		totalRows += s.Rows
	}
	tw.AppendFooter(table.Row{database, "", totalRows, ""})

	fmt.Println(tw.Render())
}
