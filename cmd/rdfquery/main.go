// Command rdfquery is a demonstration CLI over the query engine: it
// seeds a small in-memory dataset, runs named sample queries against
// it (concrete syntax parsing is an external collaborator, spec.md
// §1), and reports timing and plan shape the way the engine measures
// them.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/rdfquery/pkg/engine"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

var (
	configPath string
	optimizer  string
	condition  bool
	logFlag    bool
)

func main() {
	root := &cobra.Command{
		Use:   "rdfquery",
		Short: "An in-memory RDF triple store with a selectivity-driven query optimizer",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "rdfquery.yaml", "path to an optional YAML config file")
	root.PersistentFlags().StringVar(&optimizer, "optimizer", "", "cost model override (Off, Random, Fixed, ARQ/PF, ARQ/PFC, ARQ/PFJ, ARQ/PFJC, ARQ/VC, ARQ/VCP)")
	root.PersistentFlags().BoolVar(&condition, "condition", false, "enable condition-aware filter synthesis")
	root.PersistentFlags().BoolVar(&logFlag, "log", false, "emit engine progress logs")

	root.AddCommand(demoCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(replCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(explainCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func loadOptions(dryrun bool) (engine.EvalOptions, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return engine.EvalOptions{}, err
	}
	if optimizer != "" {
		cfg.Optimizer = optimizer
	}
	cfg.Condition = cfg.Condition || condition
	cfg.Log = cfg.Log || logFlag
	return cfg.evalOptions(dryrun), nil
}

func queryVars(q query.Query) query.Variables {
	if sq, ok := q.(query.SelectQuery); ok {
		return sq.Vars
	}
	return nil
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed the sample dataset and run every named query against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := sampleDatabase()
			if err := db.BuildStatistics(""); err != nil {
				return err
			}

			opts, err := loadOptions(false)
			if err != nil {
				return err
			}

			for _, name := range sampleQueryNames() {
				q := sampleQueries[name]
				fmt.Fprintln(cmd.OutOrStdout(), color.BlueString("=== %s ===", name))
				result, err := engine.Evaluate(db, q, opts, nil)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				printResult(cmd.OutOrStdout(), queryVars(q), result)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <name>",
		Short: "Run one named sample query against the sample dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lookupSampleQuery(args[0])
			if err != nil {
				return err
			}

			db := sampleDatabase()
			if err := db.BuildStatistics(""); err != nil {
				return err
			}

			opts, err := loadOptions(false)
			if err != nil {
				return err
			}

			result, err := engine.Evaluate(db, q, opts, nil)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), queryVars(q), result)
			return nil
		},
	}
}

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <name>",
		Short: "Plan and optimize a named query without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lookupSampleQuery(args[0])
			if err != nil {
				return err
			}

			db := sampleDatabase()
			if err := db.BuildStatistics(""); err != nil {
				return err
			}

			opts, err := loadOptions(true)
			if err != nil {
				return err
			}

			result, err := engine.Evaluate(db, q, opts, nil)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the sample dataset's cardinality summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := sampleDatabase()
			if err := db.BuildStatistics(""); err != nil {
				return err
			}
			summary := db.Summary()
			fmt.Fprintf(cmd.OutOrStdout(), "triples=%d  distinct subjects=%d  distinct predicates=%d\n",
				int(summary.T()), int(summary.R()), int(summary.P()))
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively pick and run a named sample query",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := sampleDatabase()
			if err := db.BuildStatistics(""); err != nil {
				return err
			}
			opts, err := loadOptions(false)
			if err != nil {
				return err
			}
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout(), db, opts)
		},
	}
}
