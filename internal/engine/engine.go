package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// ErrTaskNotFound is returned when a task id does not resolve in the
// current pass.
var ErrTaskNotFound = errors.New("task not found")

// Engine is the task readiness and prioritization engine. It is not safe
// for concurrent use; callers serialize reads and mutations, and the
// cache coalesces repeated reads between mutations.
type Engine struct {
	src block.Source
	mut block.Mutator

	// Clock supplies the evaluation instant. Overridable in tests.
	Clock func() time.Time

	cache cache
}

// New creates an engine over a block source. The mutator may be nil for
// read-only callers.
func New(src block.Source, mut block.Mutator) *Engine {
	return &Engine{src: src, mut: mut, Clock: time.Now}
}

// Evaluations returns the full pass: every task with its readiness
// verdict and score, ordered by score descending then id. The cached pass
// is returned unchanged until a mutation invalidates it. Callers must not
// mutate the result.
func (e *Engine) Evaluations(ctx context.Context, sc task.Schema) ([]*Evaluation, error) {
	if pass, ok := e.cache.get(); ok {
		return pass, nil
	}
	pass, err := e.compute(ctx, sc)
	if err != nil {
		return nil, err
	}
	e.cache.put(pass)
	return pass, nil
}

// NextActions returns the actionable subset of the pass, sorted by score
// descending.
func (e *Engine) NextActions(ctx context.Context, sc task.Schema) ([]*Evaluation, error) {
	pass, err := e.Evaluations(ctx, sc)
	if err != nil {
		return nil, err
	}
	out := make([]*Evaluation, 0, len(pass))
	for _, ev := range pass {
		if ev.IsNextAction {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Task returns the evaluation for one task id.
func (e *Engine) Task(ctx context.Context, sc task.Schema, id string) (*Evaluation, error) {
	if _, ok := e.cache.get(); !ok {
		if _, err := e.Evaluations(ctx, sc); err != nil {
			return nil, err
		}
	}
	if ev, ok := e.cache.lookup(id); ok {
		return ev, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Invalidate forces the next read to recompute the pass. Every mutation
// entry point calls it; callers mutating the store directly must do the
// same before their next read.
func (e *Engine) Invalidate() {
	e.cache.invalidate()
}

func (e *Engine) compute(ctx context.Context, sc task.Schema) ([]*Evaluation, error) {
	g, err := load(ctx, e.src, sc)
	if err != nil {
		return nil, err
	}
	now := e.Clock()
	reasons := evaluate(g, now)

	pass := make([]*Evaluation, 0, len(g.order))
	for _, id := range g.order {
		t := g.tasks[id]
		rs := reasons[id]
		pass = append(pass, &Evaluation{
			Task:          *t,
			IsNextAction:  rs.Empty() && t.Status != task.StatusWaiting,
			BlockedReason: rs,
			Score:         Score(*t, now, scoringContext(g, t, now)),
		})
	}
	sort.SliceStable(pass, func(i, j int) bool {
		if pass[i].Score != pass[j].Score {
			return pass[i].Score > pass[j].Score
		}
		return pass[i].Task.ID < pass[j].Task.ID
	})
	return pass, nil
}

// scoringContext derives the graph inputs the scorer cannot see from a
// single task: dependency criticality and waiting time.
func scoringContext(g *graph, t *task.Task, now time.Time) Context {
	ctx := Context{
		DependencyDescendants: clamp01(float64(transitiveDependents(g, t.ID)) / 10),
		DependencyDemand:      clamp01(float64(openDependents(g, t.ID)) / 5),
		Multiplier:            1,
	}
	if t.Status == task.StatusWaiting {
		ctx.Multiplier = WaitingMultiplier
		if t.StatusChangedAt != nil && t.StatusChangedAt.Before(now) {
			ctx.WaitingDays = now.Sub(*t.StatusChangedAt).Hours() / 24
		}
	}
	return ctx
}

// transitiveDependents counts the tasks that directly or transitively
// depend on the given one. Bounded by the visited set, so dependency
// cycles terminate.
func transitiveDependents(g *graph, id string) int {
	seen := make(map[string]bool)
	stack := append([]string(nil), g.dependents[id]...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == id || seen[next] {
			continue
		}
		seen[next] = true
		stack = append(stack, g.dependents[next]...)
	}
	return len(seen)
}

// openDependents counts direct dependents still representing open work.
func openDependents(g *graph, id string) int {
	n := 0
	for _, dep := range g.dependents[id] {
		if t, ok := g.tasks[dep]; ok && t.Status.Open() {
			n++
		}
	}
	return n
}
