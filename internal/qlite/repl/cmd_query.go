package repl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/qlite/qlite/internal/qlite/config"
	"github.com/qlite/qlite/internal/qlite/styled"
	"github.com/qlite/qlite/internal/sqlitedb"
	"github.com/qlite/qlite/internal/util/numutil"
)

func cmdQuery(r *Repl, input string) {
	res, err := r.db.Execute(r.ctx, sqlitedb.Query{SQL: input})
	if err != nil {
		tw := styled.NewTableWriter()
		tw.AppendHeader(table.Row{"Error"})
		tw.AppendRow(table.Row{cleanError(err)})
		fmt.Println(tw.Render())
		return
	}

	switch res.Type {
	case sqlitedb.QueryTypeRead:
		renderReadResult(r, res.ReadResult)
	case sqlitedb.QueryTypeWrite:
		tw := styled.NewTableWriter()
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{
			"OK", res.WriteResult.RowsAffected, res.WriteResult.LastInsertID,
		})
		fmt.Println(tw.Render())
	case sqlitedb.QueryTypeBegin:
		renderOk("Transaction started")
	case sqlitedb.QueryTypeCommit:
		renderOk("Transaction committed")
	case sqlitedb.QueryTypeRollback:
		renderOk("Transaction rolled back")
	}
}

func renderOk(msg string) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"OK"})
	tw.AppendRow(table.Row{msg})
	fmt.Println(tw.Render())
}

// cleanError removes the unwanted text from the error message. So, the
// error is more readable.
func cleanError(err error) string {
	errStr := err.Error()
	for _, prefix := range []string{
		"failed to detect query type: ",
		"failed to prepare statement: ",
		"failed to execute read query: ",
		"failed to execute write query: ",
	} {
		for len(errStr) >= len(prefix) && errStr[:len(prefix)] == prefix {
			errStr = errStr[len(prefix):]
		}
	}
	return errStr
}

func renderReadResult(r *Repl, res sqlitedb.ReadResult) {
	switch r.conf.ParsedOutput {
	case config.OutputCSV:
		renderReadResultCSV(res)
	case config.OutputJSON:
		renderReadResultJSON(res)
	default:
		renderReadResultTable(res)
	}
}

func renderReadResultTable(res sqlitedb.ReadResult) {
	tw := styled.NewTableWriter()

	header := table.Row{}
	for _, col := range res.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, value := range res.Values {
		row := make(table.Row, len(value))
		for i, cell := range value {
			row[i] = renderCell(cell)
		}
		tw.AppendRow(row)
	}

	fmt.Println(tw.Render())
	styled.DimmedColor().Printf(
		"%s row(s)\n\n", numutil.IntWithCommas(len(res.Values)),
	)
}

func renderReadResultCSV(res sqlitedb.ReadResult) {
	w := csv.NewWriter(os.Stdout)
	_ = w.Write(res.Columns)

	for _, value := range res.Values {
		record := make([]string, len(value))
		for i, cell := range value {
			if cell == nil {
				record[i] = ""
				continue
			}
			record[i] = fmt.Sprintf("%v", renderCell(cell))
		}
		_ = w.Write(record)
	}
	w.Flush()
}

func renderReadResultJSON(res sqlitedb.ReadResult) {
	rows := make([]map[string]any, len(res.Values))
	for i, value := range res.Values {
		row := map[string]any{}
		for j, col := range res.Columns {
			cell := value[j]
			if b, ok := cell.([]byte); ok {
				cell = string(b)
			}
			row[col] = cell
		}
		rows[i] = row
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		fmt.Println("Failed to encode result:", err)
		return
	}
	fmt.Println(string(out))
}

// renderCell converts a scanned value into something printable. NULLs
// render as the literal NULL, blobs as text.
func renderCell(cell any) any {
	switch v := cell.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return v
	}
}
