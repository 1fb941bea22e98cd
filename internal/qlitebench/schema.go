package qlitebench

import "database/sql"

// recreateSchema drops all tables and recreates the survey schema used
// by every benchmark.
func recreateSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,

		`DROP TABLE IF EXISTS surveys`,
		`DROP TABLE IF EXISTS species`,
		`DROP TABLE IF EXISTS plots`,

		`CREATE TABLE plots (
			plot_id INTEGER PRIMARY KEY NOT NULL,
			plot_type TEXT NOT NULL
		)`,

		`CREATE TABLE species (
			species_id TEXT PRIMARY KEY NOT NULL,
			genus TEXT NOT NULL,
			species TEXT NOT NULL,
			taxa TEXT NOT NULL
		)`,

		`CREATE TABLE surveys (
			record_id INTEGER PRIMARY KEY NOT NULL,
			year INTEGER NOT NULL,
			plot_id INTEGER NOT NULL REFERENCES plots(plot_id),
			species_id TEXT NOT NULL REFERENCES species(species_id),
			weight REAL,
			notes TEXT
		)`,
		`CREATE INDEX surveys_year ON surveys(year)`,
		`CREATE INDEX surveys_plot_id ON surveys(plot_id)`,
		`CREATE INDEX surveys_species_id ON surveys(species_id)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	return nil
}
