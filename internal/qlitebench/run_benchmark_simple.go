package qlitebench

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qlite/qlite/internal/qlitebench/benchbar"
)

type benchmarkSimpleConfig struct {
	insertXSurveys   int
	insertGoroutines int
}

// seedLookupTables inserts the single plot and species every
// non-relational benchmark hangs its surveys off.
func seedLookupTables(db *sql.DB) error {
	if _, err := db.Exec(
		"INSERT INTO plots (plot_id, plot_type) VALUES (1, 'Control')",
	); err != nil {
		return err
	}
	_, err := db.Exec(
		"INSERT INTO species (species_id, genus, species, taxa) VALUES ('DM', 'Dipodomys', 'merriami', 'Rodent')",
	)
	return err
}

// runBenchmarkSimple inserts X survey records and then queries all of
// them in a single query.
func runBenchmarkSimple(
	db *sql.DB, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkSimpleConfig
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	if err := seedLookupTables(db); err != nil {
		return benchmarkResult{}, fmt.Errorf("error seeding lookup tables: %w", err)
	}

	wg := sync.WaitGroup{}
	wgch := make(chan bool, conf.insertGoroutines)
	errChan := make(chan error, conf.insertXSurveys)
	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d surveys", conf.insertXSurveys), conf.insertXSurveys,
	)

	for idx := 0; idx < conf.insertXSurveys; idx++ {
		idx := idx
		wg.Add(1)
		wgch <- true

		go func() {
			defer func() {
				wg.Done()
				<-wgch
			}()

			res, err := db.Exec(
				"INSERT INTO surveys (year, plot_id, species_id, weight) VALUES (?, ?, ?, ?)",
				1977+idx%40, 1, "DM", float64(idx%200),
			)
			if err != nil {
				errChan <- err
				return
			}

			rowsAffected, err := res.RowsAffected()
			if err != nil {
				errChan <- err
				return
			}

			bar.Inc()
			atomic.AddUint64(&totalWrites, uint64(rowsAffected))
		}()
	}

	wg.Wait()
	close(wgch)
	close(errChan)

	for e := range errChan {
		if e != nil {
			return benchmarkResult{}, fmt.Errorf("error when inserting: %w", e)
		}
	}

	bar.Finish()
	bar = benchbar.NewBar("Reading surveys", 1)

	rows, err := db.Query(
		"SELECT record_id, year, plot_id, species_id, weight FROM surveys ORDER BY record_id",
	)
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error when querying: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordId, year, plotId int
		var speciesId string
		var weight float64
		err = rows.Scan(&recordId, &year, &plotId, &speciesId, &weight)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error when scanning: %w", err)
		}
		atomic.AddUint64(&totalReads, 1)
	}

	bar.Finish()
	return benchmarkResult{
		Name:        "Simple",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
