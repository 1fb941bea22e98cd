package qlitebench

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qlite/qlite/internal/qlitebench/benchbar"
)

type benchmarkManyConfig struct {
	insertXSurveys     int
	querySurveysYTimes int
	insertGoroutines   int
	queryGoroutines    int
}

// runBenchmarkMany inserts X surveys in a single transaction and then
// queries all surveys Y times. This simulates a read-heavy workload.
func runBenchmarkMany(
	db *sql.DB, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkManyConfig
	start := time.Now()
	var totalReads, totalWrites uint64

	if err := seedLookupTables(db); err != nil {
		return benchmarkResult{}, fmt.Errorf("error seeding lookup tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		"INSERT INTO surveys (year, plot_id, species_id, weight) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() { _ = stmt.Close() }()

	wgInsert := sync.WaitGroup{}
	chInsert := make(chan bool, conf.insertGoroutines)
	errInsert := make(chan error, conf.insertXSurveys)
	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d surveys", conf.insertXSurveys), conf.insertXSurveys,
	)

	for idx := 0; idx < conf.insertXSurveys; idx++ {
		idx := idx
		wgInsert.Add(1)
		chInsert <- true
		go func() {
			defer func() {
				wgInsert.Done()
				<-chInsert
			}()
			res, err := stmt.Exec(1977+idx%40, 1, "DM", float64(idx%200))
			if err != nil {
				errInsert <- err
				return
			}
			affected, err := res.RowsAffected()
			if err != nil {
				errInsert <- err
				return
			}

			bar.Inc()
			atomic.AddUint64(&totalWrites, uint64(affected))
		}()
	}

	wgInsert.Wait()
	close(chInsert)
	close(errInsert)

	for e := range errInsert {
		if e != nil {
			return benchmarkResult{}, e
		}
	}
	if err := tx.Commit(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	wgQuery := sync.WaitGroup{}
	chQuery := make(chan bool, conf.queryGoroutines)
	errQuery := make(chan error, conf.querySurveysYTimes)
	bar = benchbar.NewBar(
		fmt.Sprintf("Querying all surveys %d times", conf.querySurveysYTimes),
		conf.querySurveysYTimes,
	)

	for i := 0; i < conf.querySurveysYTimes; i++ {
		wgQuery.Add(1)
		chQuery <- true
		go func() {
			defer func() {
				wgQuery.Done()
				<-chQuery
			}()
			rows, err := db.Query(
				"SELECT record_id, year, plot_id, species_id, weight FROM surveys ORDER BY record_id",
			)
			if err != nil {
				errQuery <- err
				return
			}
			defer rows.Close()

			for rows.Next() {
				var recordId, year, plotId int
				var speciesId string
				var weight float64
				if err := rows.Scan(&recordId, &year, &plotId, &speciesId, &weight); err != nil {
					errQuery <- err
					return
				}
				atomic.AddUint64(&totalReads, 1)
			}

			bar.Inc()
		}()
	}

	wgQuery.Wait()
	close(chQuery)
	close(errQuery)

	for e := range errQuery {
		if e != nil {
			return benchmarkResult{}, e
		}
	}
	bar.Finish()

	return benchmarkResult{
		Name:        "Many",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
