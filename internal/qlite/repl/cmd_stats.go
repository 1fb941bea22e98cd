package repl

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/qlite/qlite/internal/qlite/styled"
	"github.com/qlite/qlite/internal/util/numutil"
)

func cmdStats(r *Repl) {
	stats := r.db.GetStats()

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{
		"Reads", "Writes", "Begins", "Commits", "Rollbacks", "Rows Fetched",
	})
	tw.AppendRow(table.Row{
		numutil.IntWithCommas(int(stats.Reads)),
		numutil.IntWithCommas(int(stats.Writes)),
		numutil.IntWithCommas(int(stats.Begins)),
		numutil.IntWithCommas(int(stats.Commits)),
		numutil.IntWithCommas(int(stats.Rollbacks)),
		numutil.IntWithCommas(int(stats.RowsFetched)),
	})

	fmt.Println(tw.Render())
	styled.DimmedColor().Printf("Session uptime: %s\n", r.db.Uptime().Round(time.Second))
	fmt.Println()
}
