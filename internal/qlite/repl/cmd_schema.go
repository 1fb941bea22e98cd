package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/qlite/qlite/internal/qlite/styled"
	"github.com/qlite/qlite/internal/util/numutil"
)

func cmdTables(r *Repl) {
	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		fmt.Println("Failed to list tables:", err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table"})
	for _, name := range tables {
		tw.AppendRow(table.Row{name})
	}
	fmt.Println(tw.Render())
}

func cmdColumns(r *Repl, tableName string) {
	columns, err := r.db.Columns(r.ctx, tableName)
	if err != nil {
		fmt.Println("Failed to list columns:", err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"#", "Name", "Type", "Not Null", "Default", "Primary Key"})

	for _, col := range columns {
		defaultValue := ""
		if col.DefaultValue.Valid {
			defaultValue = col.DefaultValue.String
		}
		tw.AppendRow(table.Row{
			col.CID, col.Name, col.Type,
			yesNo(col.NotNull), defaultValue, yesNo(col.PrimaryKey),
		})
	}
	fmt.Println(tw.Render())
}

func cmdSchema(r *Repl, tableName string) {
	entries, err := r.db.Schema(r.ctx, tableName)
	if err != nil {
		fmt.Println("Failed to read schema:", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No schema objects found")
		return
	}

	for _, entry := range entries {
		styled.DimmedColor().Printf("-- %s %s\n", entry.Type, entry.Name)
		fmt.Printf("%s;\n\n", entry.SQL)
	}
}

func cmdIndexes(r *Repl, tableName string) {
	indexes, err := r.db.Indexes(r.ctx, tableName)
	if err != nil {
		fmt.Println("Failed to list indexes:", err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Index", "Table"})
	for _, in := range indexes {
		tw.AppendRow(table.Row{in.Name, in.Table})
	}
	fmt.Println(tw.Render())
}

func cmdCount(r *Repl, tableName string) {
	count, err := r.db.Count(r.ctx, tableName)
	if err != nil {
		fmt.Println("Failed to count rows:", err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Rows"})
	tw.AppendRow(table.Row{tableName, numutil.IntWithCommas(int(count))})
	fmt.Println(tw.Render())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
