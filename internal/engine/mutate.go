package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// errReadOnly is returned by mutation entry points when the engine was
// built without a mutator.
var errReadOnly = errors.New("engine is read-only")

// apply is the single choke point for mutations: whatever the write does,
// the cached pass is invalidated before control returns to a reader.
func (e *Engine) apply(fn func() error) error {
	defer e.Invalidate()
	if e.mut == nil {
		return errReadOnly
	}
	return fn()
}

// MarkStatus writes a task's status and its bookkeeping instants: the
// status-changed instant always, the completion instant when the task
// enters done (cleared when it leaves).
func (e *Engine) MarkStatus(ctx context.Context, sc task.Schema, id string, status task.Status) error {
	return e.apply(func() error {
		now := e.Clock().UTC().Format(time.RFC3339)
		if err := e.mut.SetProperty(ctx, id, sc.Props.Status, sc.Statuses.Label(status)); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if err := e.mut.SetProperty(ctx, id, sc.Props.StatusChangedAt, now); err != nil {
			return fmt.Errorf("set status changed at: %w", err)
		}
		var completedAt any
		if status == task.StatusDone {
			completedAt = now
		}
		if err := e.mut.SetProperty(ctx, id, sc.Props.CompletedAt, completedAt); err != nil {
			return fmt.Errorf("set completed at: %w", err)
		}
		return nil
	})
}

// AddDependency links task -> target with a depends-on reference.
func (e *Engine) AddDependency(ctx context.Context, id, target string) error {
	return e.apply(func() error {
		if err := e.mut.AddRef(ctx, id, target, block.RefDependsOn); err != nil {
			return fmt.Errorf("add dependency: %w", err)
		}
		return nil
	})
}

// RemoveDependency removes the depends-on reference task -> target.
func (e *Engine) RemoveDependency(ctx context.Context, id, target string) error {
	return e.apply(func() error {
		if err := e.mut.RemoveRef(ctx, id, target, block.RefDependsOn); err != nil {
			return fmt.Errorf("remove dependency: %w", err)
		}
		return nil
	})
}

// SetDependsMode writes the dependency combination mode.
func (e *Engine) SetDependsMode(ctx context.Context, sc task.Schema, id string, mode task.DependsMode) error {
	return e.setProperty(ctx, id, sc.Props.DependsMode, mode.String())
}

// SetDependencyDelay writes the post-completion delay in hours. Negative
// values clear it.
func (e *Engine) SetDependencyDelay(ctx context.Context, sc task.Schema, id string, hours float64) error {
	var value any
	if hours > 0 {
		value = hours
	}
	return e.setProperty(ctx, id, sc.Props.DependencyDelay, value)
}

// SetSchedule writes the start and end instants. Nil clears a field.
func (e *Engine) SetSchedule(ctx context.Context, sc task.Schema, id string, start, end *time.Time) error {
	return e.apply(func() error {
		if err := e.mut.SetProperty(ctx, id, sc.Props.StartTime, timeValue(start)); err != nil {
			return fmt.Errorf("set start time: %w", err)
		}
		if err := e.mut.SetProperty(ctx, id, sc.Props.EndTime, timeValue(end)); err != nil {
			return fmt.Errorf("set end time: %w", err)
		}
		return nil
	})
}

// SetStar toggles the star flag.
func (e *Engine) SetStar(ctx context.Context, sc task.Schema, id string, star bool) error {
	return e.setProperty(ctx, id, sc.Props.Star, star)
}

// SetImportance writes the importance rating.
func (e *Engine) SetImportance(ctx context.Context, sc task.Schema, id string, value float64) error {
	return e.setProperty(ctx, id, sc.Props.Importance, value)
}

// SetUrgency writes the urgency rating.
func (e *Engine) SetUrgency(ctx context.Context, sc task.Schema, id string, value float64) error {
	return e.setProperty(ctx, id, sc.Props.Urgency, value)
}

// SetEffort writes the effort rating.
func (e *Engine) SetEffort(ctx context.Context, sc task.Schema, id string, value float64) error {
	return e.setProperty(ctx, id, sc.Props.Effort, value)
}

func (e *Engine) setProperty(ctx context.Context, id, name string, value any) error {
	return e.apply(func() error {
		if err := e.mut.SetProperty(ctx, id, name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		return nil
	})
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
