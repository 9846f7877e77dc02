package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

func fp(v float64) *float64 { return &v }

func tp(t time.Time) *time.Time { return &t }

func TestScore_NeutralTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	neutral := task.Task{
		ID:         "t1",
		Importance: fp(50),
		Urgency:    fp(50),
		Effort:     fp(50),
	}

	// base 54 divided by time penalty 1.45.
	assert.InDelta(t, 37.241, Score(neutral, now, Context{}), 0.0005)
}

func TestScore_AbsentFieldsDefaultNeutral(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 37.241, Score(task.Task{ID: "t1"}, now, Context{}), 0.0005)
}

func TestScore_TenDaysOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	overdue := task.Task{
		ID:      "t1",
		EndTime: tp(now.AddDate(0, 0, -10)),
	}

	// base 65, deadline boost 1.25, start-by boost 1.22, penalty 1.45.
	assert.InDelta(t, 68.362, Score(overdue, now, Context{}), 0.0005)
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	tsk := task.Task{
		ID:         "t1",
		Importance: fp(92),
		Urgency:    fp(13),
		Effort:     fp(77),
		Star:       true,
		StartTime:  tp(now.AddDate(0, 0, 3)),
		EndTime:    tp(now.AddDate(0, 0, 9)),
	}
	ctx := Context{DependencyDescendants: 0.4, DependencyDemand: 0.8, WaitingDays: 3}

	assert.Equal(t, Score(tsk, now, ctx), Score(tsk, now, ctx))
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		tsk  task.Task
		ctx  Context
	}{
		{name: "zero value", tsk: task.Task{ID: "a"}},
		{
			name: "everything maxed",
			tsk: task.Task{
				ID:         "b",
				Importance: fp(100),
				Urgency:    fp(100),
				Effort:     fp(0),
				Star:       true,
				EndTime:    tp(now.AddDate(0, 0, -30)),
			},
			ctx: Context{DependencyDescendants: 1, DependencyDemand: 1, WaitingDays: 100},
		},
		{
			name: "everything minimized",
			tsk: task.Task{
				ID:         "c",
				Importance: fp(0),
				Urgency:    fp(0),
				Effort:     fp(100),
				StartTime:  tp(now.AddDate(0, 0, 60)),
				EndTime:    tp(now.AddDate(0, 0, 365)),
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Score(tc.tsk, now, tc.ctx)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestScore_CurveAmplifiesExtremes(t *testing.T) {
	t.Parallel()

	// The power curve pushes 90 further from the midpoint than a linear
	// mapping would, and pulls 60 closer to it.
	assert.Greater(t, curved(90, importanceExponent), 90.0-(90.0-50.0)*0.1)
	assert.Less(t, curved(60, importanceExponent), 60.0)
	assert.Greater(t, curved(40, importanceExponent), 40.0)
	assert.InDelta(t, 50, curved(50, importanceExponent), 0.0001)
	assert.InDelta(t, 100, curved(100, importanceExponent), 0.0001)
	assert.InDelta(t, 0, curved(0, importanceExponent), 0.0001)
}

func TestScore_DueFactorShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 45, dueFactor(nil, now), 0.0001)
	assert.InDelta(t, 100, dueFactor(tp(now), now), 0.0001)
	assert.InDelta(t, 100, dueFactor(tp(now.Add(-time.Hour)), now), 0.0001)

	// Half-life decay: 4 days out sits at 35 + 65/e.
	fourDays := dueFactor(tp(now.AddDate(0, 0, 4)), now)
	assert.InDelta(t, 35+65*0.36787944117, fourDays, 0.001)

	// Far future approaches the floor.
	assert.InDelta(t, 35, dueFactor(tp(now.AddDate(2, 0, 0)), now), 0.5)
}

func TestScore_StartFactorShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 100, startFactor(nil, now), 0.0001)
	assert.InDelta(t, 100, startFactor(tp(now.Add(-time.Minute)), now), 0.0001)
	assert.InDelta(t, 10, startFactor(tp(now.AddDate(0, 0, 14)), now), 0.0001)
	assert.InDelta(t, 10, startFactor(tp(now.AddDate(0, 1, 0)), now), 0.0001)

	// Halfway through the horizon: 10 + 90*(0.5)^2.
	assert.InDelta(t, 32.5, startFactor(tp(now.AddDate(0, 0, 7)), now), 0.0001)
}

func TestScore_WaitingMultiplierRanksBelow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	tsk := task.Task{ID: "t1"}

	plain := Score(tsk, now, Context{})
	waiting := Score(tsk, now, Context{Multiplier: WaitingMultiplier})
	assert.Less(t, waiting, plain)
	assert.InDelta(t, round3(plain*WaitingMultiplier), waiting, 0.001)
}
