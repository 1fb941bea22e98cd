package qlitebench

// benchmarksConfig holds all parameters for each benchmark.
type benchmarksConfig struct {
	benchmarkSimpleConfig
	benchmarkRelationalConfig
	benchmarkManyConfig
	benchmarkLargeConfig
}

func getMattnConfig() benchmarksConfig {
	return benchmarksConfig{
		benchmarkSimpleConfig: benchmarkSimpleConfig{
			insertXSurveys:   100_000,
			insertGoroutines: 1,
		},

		benchmarkRelationalConfig: benchmarkRelationalConfig{
			insertXPlots:          24,
			insertYSpecies:        50,
			insertZSurveysPerPlot: 500,
			insertGoroutines:      1,
		},

		benchmarkManyConfig: benchmarkManyConfig{
			insertXSurveys:     1_000,
			querySurveysYTimes: 1_000,
			insertGoroutines:   1,
			queryGoroutines:    1,
		},

		benchmarkLargeConfig: benchmarkLargeConfig{
			insertXSurveys:   10_000,
			insertYBytes:     10_000,
			insertGoroutines: 1,
		},
	}
}

func getModerncConfig() benchmarksConfig {
	// Same workload as the cgo driver so the numbers are comparable.
	return getMattnConfig()
}
