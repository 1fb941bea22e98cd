package qlitebench

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qlite/qlite/internal/qlitebench/benchbar"
)

type benchmarkLargeConfig struct {
	insertXSurveys   int
	insertYBytes     int
	insertGoroutines int
}

// runBenchmarkLarge inserts X surveys carrying Y bytes of notes each and
// then queries all of them in a single query.
func runBenchmarkLarge(
	db *sql.DB, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkLargeConfig
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
		fmt.Sprintf("Inserting %d large surveys", conf.insertXSurveys),
		conf.insertXSurveys,
	)

	notes := strings.Repeat("Y", conf.insertYBytes)
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
				"INSERT INTO surveys (year, plot_id, species_id, weight, notes) VALUES (?, ?, ?, ?, ?)",
				1977+idx%40, 1, "DM", float64(idx%200), notes,
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

	bar = benchbar.NewBar("Reading large surveys", 1)
	rows, err := db.Query(
		"SELECT record_id, year, notes FROM surveys ORDER BY record_id",
	)
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error when querying: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordId, year int
		var notes string
		err = rows.Scan(&recordId, &year, &notes)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error when scanning: %w", err)
		}

		atomic.AddUint64(&totalReads, 1)
	}

	bar.Finish()
	return benchmarkResult{
		Name:        "Large",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
