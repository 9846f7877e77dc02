package engine

import (
	"math"
	"time"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// Context carries the graph-derived scoring inputs for one task. The
// engine pass fills it; callers scoring tasks standalone may leave the
// zero value for a neutral result.
type Context struct {
	DependencyDescendants float64 // [0,1], transitive dependents
	DependencyDemand      float64 // [0,1], open direct dependents
	WaitingDays           float64 // days spent in waiting status
	Multiplier            float64 // status multiplier; 0 means 1
}

// WaitingMultiplier ranks waiting-status tasks below actionable ones
// while keeping them orderable.
const WaitingMultiplier = 0.6

const (
	neutralScore = 50.0

	importanceExponent = 1.25
	urgencyExponent    = 1.15

	dueDefault      = 45.0
	dueFloor        = 35.0
	dueHalfLifeDays = 4.0

	startFloor       = 10.0
	startHorizonDays = 14.0

	starContext    = 80.0
	defaultContext = 50.0

	focusHoursPerDay = 3.0
	agingHorizonDays = 14.0
	overdueCapDays   = 7.0
)

// Score computes the deterministic 0-100 priority for a task. Pure
// function of its arguments; identical inputs always yield an identical
// result, rounded to 3 decimal places.
func Score(t task.Task, now time.Time, ctx Context) float64 {
	importance := curved(neutral(t.Importance), importanceExponent)
	urgency := curved(neutral(t.Urgency), urgencyExponent)
	effortNorm := neutral(t.Effort) / 100

	due := dueFactor(t.EndTime, now)
	start := startFactor(t.StartTime, now)
	context := defaultContext
	if t.Star {
		context = starContext
	}

	criticality := clamp01(0.6*ctx.DependencyDescendants + 0.4*ctx.DependencyDemand)
	overdue := clamp01(daysOverdue(t.EndTime, now) / overdueCapDays)
	aging := clamp01(ctx.WaitingDays / agingHorizonDays)

	base := 0.40*importance + 0.22*urgency + 0.20*due + 0.10*start + 0.08*context
	timePenalty := 1 + 0.90*effortNorm
	criticalBoost := 1 + 0.30*criticality
	deadlineBoost := 1 + 0.25*overdue
	startByBoost := 1 + 0.22*startByPressure(t.EndTime, now, effortNorm)
	agingBoost := 1 + 0.12*aging

	score := (base * criticalBoost * deadlineBoost * startByBoost * agingBoost) / timePenalty
	if ctx.Multiplier > 0 {
		score *= ctx.Multiplier
	}
	return round3(clamp(score, 0, 100))
}

// neutral substitutes the midpoint for an absent 0-100 value.
func neutral(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	return *v
}

// curved applies a centered power curve so values near the extremes count
// disproportionately more than mid-range ones.
func curved(value, exponent float64) float64 {
	centered := value - neutralScore
	magnitude := math.Pow(math.Abs(centered)/neutralScore, exponent) * neutralScore
	if centered < 0 {
		return neutralScore - magnitude
	}
	return neutralScore + magnitude
}

// dueFactor decays exponentially toward a floor as the due date recedes
// and saturates at 100 once the deadline passes.
func dueFactor(end *time.Time, now time.Time) float64 {
	if end == nil {
		return dueDefault
	}
	days := end.Sub(now).Hours() / 24
	if days <= 0 {
		return 100
	}
	return dueFloor + (100-dueFloor)*math.Exp(-days/dueHalfLifeDays)
}

// startFactor eases quadratically from 100 down to a floor over the
// scheduling horizon for tasks that have not reached their start time.
func startFactor(start *time.Time, now time.Time) float64 {
	if start == nil || !start.After(now) {
		return 100
	}
	days := start.Sub(now).Hours() / 24
	if days >= startHorizonDays {
		return startFloor
	}
	ease := 1 - days/startHorizonDays
	return startFloor + (100-startFloor)*ease*ease
}

// startByPressure estimates how much of the remaining runway the task's
// effort already consumes. Requires a due date.
func startByPressure(end *time.Time, now time.Time, effortNorm float64) float64 {
	if end == nil {
		return 0
	}
	daysUntilDue := end.Sub(now).Hours() / 24
	requiredDays := (effortNorm * 24) / focusHoursPerDay
	slack := daysUntilDue - requiredDays - 1
	return clamp01(1 - slack/7)
}

func daysOverdue(end *time.Time, now time.Time) float64 {
	if end == nil || end.After(now) {
		return 0
	}
	return now.Sub(*end).Hours() / 24
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
