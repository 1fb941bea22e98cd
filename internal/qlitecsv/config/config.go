package config

import (
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/qlite/qlite/internal/version"
)

// Config represents the configuration for qlitecsv.
type Config struct {
	CSVPaths        []string `arg:"positional,required" help:"CSV files to import, one table per file"`
	Database        string   `arg:"-d,--database,env:QLITECSV_DATABASE,required" help:"Path of the SQLite database file to create or extend"`
	Table           string   `arg:"-t,--table,env:QLITECSV_TABLE" help:"Table name override, only valid with a single CSV file (default is the file stem)"`
	Delimiter       string   `arg:"--delimiter,env:QLITECSV_DELIMITER" help:"CSV field delimiter" default:","`
	NoProgress      bool     `arg:"--no-progress,env:QLITECSV_NO_PROGRESS" help:"Disable the progress bar" default:"false"`
	KeepGoing       bool     `arg:"-k,--keep-going,env:QLITECSV_KEEP_GOING" help:"Continue with the remaining files when one fails" default:"false"`
	ParsedDelimiter rune     `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ImporterVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments after loading a .env file if one is present. It
// returns a Config struct or exits the program with an error.
func MustParse(args []string) Config {
	_ = godotenv.Load()

	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	cfg.ParsedDelimiter, err = parseDelimiter(cfg.Delimiter)
	if err != nil {
		log.Fatal(err)
	}

	if err := validateTableOverride(cfg.Table, len(cfg.CSVPaths)); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// parseDelimiter validates that the delimiter is a single rune.
func parseDelimiter(delimiter string) (rune, error) {
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q, must be a single character", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	return r, nil
}

// validateTableOverride rejects a table override with multiple inputs,
// since every file becomes its own table.
func validateTableOverride(table string, csvCount int) error {
	if table != "" && csvCount > 1 {
		return errors.New("--table is only valid with a single CSV file")
	}
	return nil
}
