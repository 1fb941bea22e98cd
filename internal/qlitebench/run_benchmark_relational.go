package qlitebench

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qlite/qlite/internal/qlitebench/benchbar"
)

type benchmarkRelationalConfig struct {
	insertXPlots          int
	insertYSpecies        int
	insertZSurveysPerPlot int
	insertGoroutines      int
}

// runBenchmarkRelational inserts X plots and Y species, then Z surveys
// per plot, and finally reads everything back with a three table JOIN.
func runBenchmarkRelational(
	db *sql.DB, fullConfig benchmarksConfig,
) (benchmarkResult, error) {
	conf := fullConfig.benchmarkRelationalConfig
	start := time.Now()
	var totalReads, totalWrites uint64

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d plots", conf.insertXPlots), conf.insertXPlots,
	)
	for idx := 0; idx < conf.insertXPlots; idx++ {
		plotType := "Control"
		if idx%2 == 1 {
			plotType = "Rodent exclosure"
		}
		res, err := db.Exec(
			"INSERT INTO plots (plot_id, plot_type) VALUES (?, ?)", idx+1, plotType,
		)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error inserting plots: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		bar.Inc()
		totalWrites += uint64(affected)
	}
	bar.Finish()

	bar = benchbar.NewBar(
		fmt.Sprintf("Inserting %d species", conf.insertYSpecies), conf.insertYSpecies,
	)
	for idx := 0; idx < conf.insertYSpecies; idx++ {
		res, err := db.Exec(
			"INSERT INTO species (species_id, genus, species, taxa) VALUES (?, ?, ?, ?)",
			fmt.Sprintf("S%03d", idx), "Genus", fmt.Sprintf("species%d", idx), "Rodent",
		)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error inserting species: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		bar.Inc()
		totalWrites += uint64(affected)
	}
	bar.Finish()

	totalSurveys := conf.insertXPlots * conf.insertZSurveysPerPlot
	wg := sync.WaitGroup{}
	wgch := make(chan bool, conf.insertGoroutines)
	errChan := make(chan error, totalSurveys)
	bar = benchbar.NewBar(
		fmt.Sprintf("Inserting %d surveys", totalSurveys), totalSurveys,
	)

	for idx := 0; idx < totalSurveys; idx++ {
		idx := idx
		wg.Add(1)
		wgch <- true
		go func() {
			defer func() {
				wg.Done()
				<-wgch
			}()
			plotId := (idx % conf.insertXPlots) + 1
			speciesId := fmt.Sprintf("S%03d", idx%conf.insertYSpecies)
			res, err := db.Exec(
				"INSERT INTO surveys (year, plot_id, species_id, weight) VALUES (?, ?, ?, ?)",
				1977+idx%40, plotId, speciesId, float64(idx%200),
			)
			if err != nil {
				errChan <- err
				return
			}
			affected, err := res.RowsAffected()
			if err != nil {
				errChan <- err
				return
			}

			bar.Inc()
			atomic.AddUint64(&totalWrites, uint64(affected))
		}()
	}

	wg.Wait()
	close(wgch)
	close(errChan)

	for e := range errChan {
		if e != nil {
			return benchmarkResult{}, fmt.Errorf("error inserting surveys: %w", e)
		}
	}
	bar.Finish()

	bar = benchbar.NewBar("Reading surveys, species, and plots", 1)
	rows, err := db.Query(`
		SELECT
		surveys.record_id, surveys.year, surveys.weight,
		species.species_id, species.genus, species.taxa,
		plots.plot_id, plots.plot_type
		FROM surveys
		JOIN species ON surveys.species_id = species.species_id
		JOIN plots ON surveys.plot_id = plots.plot_id
		ORDER BY surveys.record_id
	`)
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error querying: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordId, year, plotId int
		var weight float64
		var speciesId, genus, taxa, plotType string

		err = rows.Scan(
			&recordId, &year, &weight,
			&speciesId, &genus, &taxa,
			&plotId, &plotType,
		)
		if err != nil {
			return benchmarkResult{}, fmt.Errorf("error when scanning: %w", err)
		}

		atomic.AddUint64(&totalReads, 1)
	}

	bar.Finish()
	return benchmarkResult{
		Name:        "Relational",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
