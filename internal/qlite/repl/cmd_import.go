package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/qlite/qlite/internal/csvimport"
	"github.com/qlite/qlite/internal/qlite/styled"
	"github.com/qlite/qlite/internal/util/numutil"
)

func cmdImport(r *Repl, args []string) {
	opts := csvimport.FileOptions{}
	if len(args) > 1 {
		opts.Table = args[1]
	}

	summary, err := r.importer.ImportFile(r.ctx, args[0], opts)
	if err != nil {
		fmt.Println("Import failed:", err)
		return
	}

	colNames := make([]string, len(summary.Columns))
	for i, col := range summary.Columns {
		colNames[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Columns", "Rows", "Duration"})
	tw.AppendRow(table.Row{
		summary.Table,
		strings.Join(colNames, ", "),
		numutil.IntWithCommas(int(summary.Rows)),
		summary.Duration.Round(time.Millisecond),
	})
	fmt.Println(tw.Render())
}
