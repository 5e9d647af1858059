package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/engine"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// printResult renders a QueryResult the way the CLI's demo/query/repl
// commands all report: a table of mappings for a SelectQuery,
// or a colorized boolean for an AskQuery, followed by the timing and
// plan-shape summary line.
func printResult(w io.Writer, vars query.Variables, result engine.QueryResult) {
	switch result.Kind() {
	case engine.AskResult:
		if result.Ask() {
			fmt.Fprintln(w, color.GreenString("true"))
		} else {
			fmt.Fprintln(w, color.RedString("false"))
		}
	default:
		printMappings(w, vars, result.Mappings())
	}
	printSummary(w, result)
}

func printMappings(w io.Writer, vars query.Variables, mappings []*plan.Mapping) {
	if len(mappings) == 0 {
		fmt.Fprintln(w, color.YellowString("(no results)"))
		return
	}

	headers := make([]string, len(vars))
	for i, v := range vars {
		headers[i] = v.String()
	}

	table := tablewriter.NewTable(w)
	table.Header(headers)
	for _, m := range mappings {
		row := make([]string, len(vars))
		for i, v := range vars {
			if t, ok := m.Get(v); ok {
				row[i] = t.String()
			} else {
				row[i] = "-"
			}
		}
		table.Append(row)
	}
	table.Render()
	fmt.Fprintf(w, "%s\n", color.CyanString("%d row(s)", len(mappings)))
}

func printSummary(w io.Writer, result engine.QueryResult) {
	meta := result.Operations()
	fmt.Fprintf(w, "%s  opt=%s run=%s  joins=%d scans=%d filters=%d disjunct_joins=%d\n",
		color.MagentaString(result.Optimizers()),
		result.OptDuration(),
		result.RunDuration(),
		meta.Joins, meta.Scans, meta.Filters, meta.DisjunctJoins,
	)
}
