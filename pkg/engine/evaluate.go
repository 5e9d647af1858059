// Package engine drives a single query from text through planning,
// optimization, and execution, timing the optimize and run phases the
// way the CLI reports them (spec.md §4.6).
package engine

import (
	"time"

	"github.com/aleksaelezovic/rdfquery/internal/database"
	"github.com/aleksaelezovic/rdfquery/internal/engine/analyzer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/exec"
	"github.com/aleksaelezovic/rdfquery/internal/engine/optimizer"
	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/internal/engine/planner"
	"github.com/aleksaelezovic/rdfquery/internal/engine/selectivity"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// EvalOptions configures a single evaluate call (spec.md §6, exhaustive
// field list).
type EvalOptions struct {
	// Optimizer names one of the nine cost models (selectivity.Kind's
	// String form); the zero value resolves to ArqPFJ, matching the
	// reference default.
	Optimizer string
	// Condition enables condition analysis and pushdown filter
	// synthesis during optimization.
	Condition bool
	// Dryrun plans and optimizes but skips execution.
	Dryrun bool
	// Log emits progress lines to the configured logger as evaluate
	// proceeds through each pipeline stage.
	Log bool
}

func (o EvalOptions) resolveKind() (selectivity.Kind, error) {
	if o.Optimizer == "" {
		return selectivity.ArqPFJ, nil
	}
	return selectivity.ParseKind(o.Optimizer)
}

// QueryResultKind distinguishes the two query forms a QueryResult can
// carry (spec.md §6).
type QueryResultKind int

const (
	// SelectResult carries zero or more result mappings.
	SelectResult QueryResultKind = iota
	// AskResult carries a single boolean.
	AskResult
)

// QueryResult is evaluate's return value: timing, plan shape, and
// either a mapping collection (SelectQuery) or a boolean (AskQuery),
// per spec.md §6's exposed accessors.
type QueryResult struct {
	kind        QueryResultKind
	dryrun      bool
	runDuration time.Duration
	optDuration time.Duration
	optimizer   string
	operations  analyzer.OperationMeta
	mappings    []*plan.Mapping
	ask         bool
}

// Kind reports whether this result came from a SelectQuery or an
// AskQuery.
func (r QueryResult) Kind() QueryResultKind { return r.kind }

// Size returns the number of result mappings for a SelectQuery (always
// 0 for AskQuery or a dry run).
func (r QueryResult) Size() int { return len(r.mappings) }

// RunDuration returns how long execution took (zero for a dry run).
func (r QueryResult) RunDuration() time.Duration { return r.runDuration }

// OptDuration returns how long optimization took.
func (r QueryResult) OptDuration() time.Duration { return r.optDuration }

// Optimizers returns the name of the cost model evaluate() used.
func (r QueryResult) Optimizers() string { return r.optimizer }

// Operations returns the shape of the final optimized plan.
func (r QueryResult) Operations() analyzer.OperationMeta { return r.operations }

// IsDryrun reports whether execution was skipped.
func (r QueryResult) IsDryrun() bool { return r.dryrun }

// Mappings returns the collected result rows for a SelectQuery; nil
// for an AskQuery or a dry run.
func (r QueryResult) Mappings() []*plan.Mapping { return r.mappings }

// Ask returns the single boolean result for an AskQuery; false for a
// SelectQuery.
func (r QueryResult) Ask() bool { return r.ask }

// Logger receives evaluate's progress lines when EvalOptions.Log is
// set. *log.Logger satisfies this.
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Evaluate runs the full pipeline spec.md §4.6 describes: condition
// analysis, estimator selection, prologue expansion, planning,
// optimization, and (unless opts.Dryrun) execution.
func Evaluate(db *database.Database, q query.Query, opts EvalOptions, logger Logger) (QueryResult, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	info := analyzer.NewConditionInfo()
	if sq, ok := q.(query.SelectQuery); ok {
		info = info.Union(conditionInfoOf(sq.Expr))
	}
	if aq, ok := q.(query.AskQuery); ok {
		info = info.Union(conditionInfoOf(aq.Expr))
	}
	if opts.Log {
		logger.Printf("engine: condition analysis complete, empty=%v", info.IsEmpty())
	}

	kind, err := opts.resolveKind()
	if err != nil {
		return QueryResult{}, err
	}
	estimator := selectivity.New(kind, db.Summary(), info)
	if opts.Log {
		logger.Printf("engine: using estimator %s", estimator.Name())
	}

	expanded, err := query.Expand(q)
	if err != nil {
		return QueryResult{}, err
	}

	p := planner.New(db)
	initial := p.Plan(expanded)
	if opts.Log {
		logger.Printf("engine: initial plan has %+v", analyzer.Meta(initial))
	}

	optStart := time.Now()
	opt := optimizer.New(estimator).WithCondition(opts.Condition)
	optimized, err := opt.Optimize(initial)
	optDuration := time.Since(optStart)
	if err != nil {
		return QueryResult{}, err
	}
	if opts.Log {
		logger.Printf("engine: optimization took %s, final plan has %+v", optDuration, analyzer.Meta(optimized))
	}

	result := QueryResult{
		kind:        resultKind(expanded),
		dryrun:      opts.Dryrun,
		optDuration: optDuration,
		optimizer:   estimator.Name(),
		operations:  analyzer.Meta(optimized),
	}
	if opts.Dryrun {
		return result, nil
	}

	runStart := time.Now()
	it := exec.Build(optimized)
	switch result.kind {
	case AskResult:
		_, ok := it.Next()
		result.ask = ok
	default:
		for {
			m, ok := it.Next()
			if !ok {
				break
			}
			result.mappings = append(result.mappings, m)
		}
	}
	result.runDuration = time.Since(runStart)
	if opts.Log {
		logger.Printf("engine: execution took %s, produced %d mapping(s)", result.runDuration, len(result.mappings))
	}

	return result, nil
}

func resultKind(q query.Query) QueryResultKind {
	if _, ok := q.(query.AskQuery); ok {
		return AskResult
	}
	return SelectResult
}

func conditionInfoOf(expr query.Expression) analyzer.ConditionInfo {
	return query.VisitExpression[analyzer.ConditionInfo](conditionInfoVisitor{}, expr)
}

// conditionInfoVisitor walks an Expression tree purely to accumulate
// ConditionInfo from its Filter nodes, mirroring the Filter branch of
// the optimizer's own structural recursion (spec.md §4.5 step 4) but
// run ahead of planning so Evaluate can report it independent of
// whether optimization is enabled.
type conditionInfoVisitor struct{}

func (conditionInfoVisitor) VisitTriple(query.Subject, query.Predicate, query.Object) analyzer.ConditionInfo {
	return analyzer.NewConditionInfo()
}

func (v conditionInfoVisitor) VisitAnd(left, right query.Expression) analyzer.ConditionInfo {
	return conditionInfoOf(left).Union(conditionInfoOf(right))
}

func (v conditionInfoVisitor) VisitUnion(left, right query.Expression) analyzer.ConditionInfo {
	return conditionInfoOf(left).Union(conditionInfoOf(right))
}

func (v conditionInfoVisitor) VisitOptional(left, right query.Expression) analyzer.ConditionInfo {
	return conditionInfoOf(left).Union(conditionInfoOf(right))
}

func (v conditionInfoVisitor) VisitFilter(expr query.Expression, cond query.Condition) analyzer.ConditionInfo {
	return conditionInfoOf(expr).Union(analyzer.AnalyzeCondition(cond))
}
