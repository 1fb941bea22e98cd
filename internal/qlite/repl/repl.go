package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/qlite/qlite/internal/csvimport"
	"github.com/qlite/qlite/internal/log"
	"github.com/qlite/qlite/internal/qlite/config"
	"github.com/qlite/qlite/internal/sqlitedb"
	"github.com/qlite/qlite/internal/util/numutil"
	"github.com/qlite/qlite/internal/util/sysutil"
)

type Repl struct {
	conf        config.Config
	db          *sqlitedb.DB
	importer    *csvimport.Importer
	ctx         context.Context
	stop        context.CancelFunc
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	db *sqlitedb.DB,
) Repl {
	return Repl{
		conf: conf,
		db:   db,
		importer: &csvimport.Importer{
			Logger:       log.NewLogger(os.Stderr),
			DB:           db,
			ShowProgress: true,
		},
		ctx:         ctx,
		stop:        stop,
		historyPath: filepath.Join(os.TempDir(), ".qlite_history"),
	}
}

func (r *Repl) Start() error {
	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", r.db.Path(), err)
	}

	fmt.Println()
	fmt.Printf(
		"Connected to %s (%s tables)\n",
		r.db.Path(), numutil.IntWithCommas(len(tables)),
	)
	fmt.Println(`Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Println()

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()

			if input == "" {
				continue
			}

			if input == "exit" || input == ".exit" || input == ".quit" {
				r.Shutdown()
				return nil
			}

			if input == "clear" || input == ".clear" {
				sysutil.ClearTerminal()
				continue
			}

			if input == "help" || input == ".help" {
				cmdHelp()
				continue
			}

			if strings.HasPrefix(input, ".") {
				r.dispatchDotCommand(input)
				continue
			}

			cmdQuery(r, input)
		}
	}
}

// dispatchDotCommand routes an input starting with "." to its command.
func (r *Repl) dispatchDotCommand(input string) {
	name, args := parseDotCommand(input)

	switch name {
	case ".tables":
		cmdTables(r)
	case ".columns":
		if len(args) != 1 {
			fmt.Println("Usage: .columns <table_name>")
			return
		}
		cmdColumns(r, args[0])
	case ".schema":
		cmdSchema(r, firstOrEmpty(args))
	case ".indexes":
		cmdIndexes(r, firstOrEmpty(args))
	case ".count":
		if len(args) != 1 {
			fmt.Println("Usage: .count <table_name>")
			return
		}
		cmdCount(r, args[0])
	case ".import":
		if len(args) < 1 || len(args) > 2 {
			fmt.Println("Usage: .import <csv_file> [table_name]")
			return
		}
		cmdImport(r, args)
	case ".stats":
		cmdStats(r)
	default:
		fmt.Println("Unknown command, type .help for usage hints")
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// parseDotCommand splits a dot command into its name and arguments.
func parseDotCommand(input string) (string, []string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	label := "qlite> "
	if r.db.InTransaction() {
		label = "qlite(tx)> "
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt(label)
	if err != nil {
		if err == liner.ErrPromptAborted {
			fmt.Println("CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
