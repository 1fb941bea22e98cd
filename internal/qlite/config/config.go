package config

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/orsinium-labs/enum"
	"github.com/qlite/qlite/internal/version"
)

// OutputFormat represents how query results are rendered.
type OutputFormat = enum.Member[string]

var (
	OutputTable   = OutputFormat{Value: "table"}
	OutputCSV     = OutputFormat{Value: "csv"}
	OutputJSON    = OutputFormat{Value: "json"}
	OutputFormats = enum.New(OutputTable, OutputCSV, OutputJSON)
)

// Config represents the configuration for the qlite shell.
type Config struct {
	DatabasePath         string       `arg:"positional,required" help:"Path to the SQLite database file"`
	Create               bool         `arg:"-c,--create,env:QLITE_CREATE" help:"Create the database file if it does not exist" default:"false"`
	Output               string       `arg:"-o,--output,env:QLITE_OUTPUT" help:"Output format for query results (table, csv, json)" default:"table"`
	DisableOptimizations bool         `arg:"--disable-optimizations,env:QLITE_DISABLE_OPTIMIZATIONS" help:"Disable performance optimizations at startup for the underlying SQLite database, allowing manual tuning" default:"false"`
	ParsedOutput         OutputFormat `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	parsedOutput, err := parseOutputFormat(cfg.Output)
	if err != nil {
		log.Fatal(err)
	}
	cfg.ParsedOutput = parsedOutput

	return cfg
}

// parseOutputFormat validates the output format flag.
func parseOutputFormat(value string) (OutputFormat, error) {
	parsed := OutputFormats.Parse(value)
	if parsed == nil {
		return OutputFormat{}, fmt.Errorf(
			"invalid output format %q, valid values are: table, csv, json", value,
		)
	}
	return *parsed, nil
}
