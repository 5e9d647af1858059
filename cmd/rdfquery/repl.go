package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/pkg/engine"
)

// runRepl is a minimal read-eval-print loop over the named sample
// query registry, grounded on the pack's own interactive-mode pattern
// (a bufio.Scanner line loop with ".help"/".exit" commands).
func runRepl(in io.Reader, out io.Writer, db *database.Database, opts engine.EvalOptions) error {
	fmt.Fprintln(out, "=== rdfquery interactive mode ===")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  .help         - list available queries")
	fmt.Fprintln(out, "  .exit         - exit")
	fmt.Fprintln(out, "  <query-name>  - run a named query")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ".exit":
			return nil
		case line == ".help":
			for _, name := range sampleQueryNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
		default:
			q, err := lookupSampleQuery(line)
			if err != nil {
				fmt.Fprintln(out, color.RedString("%v", err))
				continue
			}
			result, err := engine.Evaluate(db, q, opts, nil)
			if err != nil {
				fmt.Fprintln(out, color.RedString("%v", err))
				continue
			}
			printResult(out, queryVars(q), result)
		}
	}
}
