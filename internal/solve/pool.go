// Package solve runs the H·2 construction seeds through local search on a
// bounded worker pool and reduces their results to the single best
// solution under the lexicographic objective (spec.md §5). Modeled on the
// teacher's webhooks.Worker fan-out shape, adapted from a polling ticker
// to a job-channel/result-channel pipeline since every task is known
// up front instead of discovered by polling a store.
package solve

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/google/uuid"

	"vroom/internal/config"
	"vroom/internal/construct"
	"vroom/internal/core"
	"vroom/internal/localsearch"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/progress"
	"vroom/internal/routestate"
	"vroom/internal/vrerr"
)

// task is one (seed, variant) unit of work: a single independent run from
// construction through local search.
type task struct {
	index  int
	runID  string
	params construct.Params
}

// Result is one completed run's outcome, index-tagged so the reducer's
// tie-break is reproducible regardless of goroutine completion order
// (spec.md §5 P6).
type Result struct {
	Index    int
	RunID    string
	Params   construct.Params
	Solution *model.Solution
	Caches   []*routestate.Cache
	Tuple    objective.Tuple
	Err      error
}

// Run executes every (seed × {sequential, parallel}) construction variant
// for cfg.HeuristicsCount seeds on a pool of cfg.Threads() workers, and
// returns the single best solution under the spec.md §4.7 objective. ctx
// cancellation stops workers cooperatively before they start their next
// task; an in-flight run finishes its current synchronous step first
// (spec.md §5: "no suspension points inside a run").
func Run(ctx context.Context, sctx *core.Context, cfg config.Config, broker progress.Broker) (*model.Solution, objective.Tuple, error) {
	tasks := buildTasks(cfg)
	jobs := make(chan task, len(tasks))
	results := make(chan Result, len(tasks))

	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	workers := cfg.Threads()
	if workers > len(tasks) {
		workers = len(tasks)
	}
	if workers < 1 {
		workers = 1
	}

	var internalErr error
	for w := 0; w < workers; w++ {
		go worker(ctx, sctx, cfg, broker, jobs, results)
	}

	collected := make([]Result, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		r := <-results
		if r.Err != nil && internalErr == nil {
			internalErr = r.Err
		}
		collected = append(collected, r)
	}
	if internalErr != nil {
		return nil, objective.Tuple{}, internalErr
	}
	return reduce(collected)
}

func buildTasks(cfg config.Config) []task {
	seeds := construct.DefaultSeeds(cfg.HeuristicsCount)
	tasks := make([]task, 0, len(seeds)*2)
	idx := 0
	for _, seed := range seeds {
		for _, sequential := range []bool{false, true} {
			p := seed
			p.Sequential = sequential
			tasks = append(tasks, task{index: idx, runID: uuid.NewString(), params: p})
			idx++
		}
	}
	return tasks
}

// worker drains jobs until the channel closes or ctx is cancelled between
// tasks, recovering a panicking run as a vrerr.InternalError rather than
// crashing the pool (spec.md §5).
func worker(ctx context.Context, sctx *core.Context, cfg config.Config, broker progress.Broker, jobs <-chan task, results chan<- Result) {
	for t := range jobs {
		select {
		case <-ctx.Done():
			results <- Result{Index: t.index, RunID: t.runID, Params: t.params, Err: vrerr.InternalError("solve.worker", ctx.Err())}
			continue
		default:
		}
		results <- runOne(sctx, cfg, t, broker)
	}
}

func runOne(sctx *core.Context, cfg config.Config, t task, broker progress.Broker) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			result = Result{
				Index:  t.index,
				RunID:  t.runID,
				Params: t.params,
				Err:    vrerr.InternalError("solve.run", fmt.Errorf("run %s panicked: %v\n%s", t.runID, p, debug.Stack())),
			}
		}
	}()
	sol, caches, err := construct.Build(sctx, t.params)
	if err != nil {
		return Result{Index: t.index, RunID: t.runID, Params: t.params, Err: vrerr.InternalError("construct.Build", err)}
	}
	budget := localsearch.Budget{
		MaxUnsuccessful: cfg.PerturbationPasses,
		RuinSize:        ruinSizeFor(sctx),
		ReinsertParams:  t.params,
	}
	if broker != nil {
		budget.Reporter = func(phase string, iteration int, tuple objective.Tuple, unassigned int) {
			evt := progress.Event{
				RunID: t.runID, Phase: phase, Iteration: iteration,
				Cost: tuple.Cost, Duration: tuple.Duration, Unassigned: unassigned,
			}
			broker.Publish(t.runID, evt)
			broker.Publish(progress.AllRuns, evt)
		}
	}
	tuple := localsearch.Run(sctx, sol, caches, budget)
	return Result{Index: t.index, RunID: t.runID, Params: t.params, Solution: sol, Caches: caches, Tuple: tuple}
}

// ruinSizeFor picks a perturbation batch size proportional to the fleet's
// job count, per spec.md §4.6 step 5's "up to r jobs" with r left to the
// implementation.
func ruinSizeFor(sctx *core.Context) int {
	n := len(sctx.Input.Jobs) / 10
	if n < 1 {
		n = 1
	}
	if n > 30 {
		n = 30
	}
	return n
}

// reduce picks the best Result under the objective tuple, breaking ties
// by the lowest task index so the outcome never depends on goroutine
// scheduling order (spec.md §5 P6).
func reduce(results []Result) (*model.Solution, objective.Tuple, error) {
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	best := results[0]
	for _, r := range results[1:] {
		if objective.Less(r.Tuple, best.Tuple) {
			best = r
		}
	}
	return best.Solution, best.Tuple, nil
}
