package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
)

func TestDecode_FullPayload(t *testing.T) {
	t.Parallel()

	sc := DefaultSchema()
	b := block.Block{
		ID:   "b1",
		Text: "ship the release",
		Properties: map[string]any{
			"status":           "doing",
			"start_time":       "2026-08-01T09:00:00Z",
			"end_time":         "2026-08-20T17:00:00Z",
			"importance":       80,
			"urgency":          "65", // weakly typed on purpose
			"effort":           30.5,
			"star":             true,
			"depends_mode":     "any",
			"dependency_delay": 24,
		},
		Refs: []block.Ref{
			{Type: block.RefDependsOn, To: "b2"},
			{Type: block.RefDependsOn, To: "b3"},
		},
	}

	got := Decode(b, sc)

	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, StatusDoing, got.Status)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), got.StartTime.UTC())
	require.NotNil(t, got.EndTime)
	require.NotNil(t, got.Importance)
	assert.InDelta(t, 80, *got.Importance, 0.001)
	require.NotNil(t, got.Urgency)
	assert.InDelta(t, 65, *got.Urgency, 0.001)
	assert.True(t, got.Star)
	assert.Equal(t, DependsAny, got.DependsMode)
	assert.InDelta(t, 24, got.DependencyDelay, 0.001)
	assert.Equal(t, []string{"b2", "b3"}, got.DependsOn)
}

func TestDecode_MalformedValuesFallBackToDefaults(t *testing.T) {
	t.Parallel()

	sc := DefaultSchema()
	b := block.Block{
		ID: "b1",
		Properties: map[string]any{
			"status":           "no-such-status",
			"start_time":       "not a timestamp",
			"importance":       "plenty",
			"star":             map[string]any{"nested": true},
			"dependency_delay": -4,
		},
	}

	got := Decode(b, sc)

	assert.Equal(t, StatusTodo, got.Status)
	assert.Nil(t, got.StartTime)
	assert.Nil(t, got.Importance)
	assert.False(t, got.Star)
	assert.Zero(t, got.DependencyDelay)
	assert.Equal(t, DependsAll, got.DependsMode)
}

func TestDecode_OneBadFieldDoesNotPoisonTheRest(t *testing.T) {
	t.Parallel()

	sc := DefaultSchema()
	b := block.Block{
		ID: "b1",
		Properties: map[string]any{
			"start_time": "garbage",
			"urgency":    90,
		},
	}

	got := Decode(b, sc)
	assert.Nil(t, got.StartTime)
	require.NotNil(t, got.Urgency)
	assert.InDelta(t, 90, *got.Urgency, 0.001)
}

func TestDecode_ScoresClampTo0100(t *testing.T) {
	t.Parallel()

	sc := DefaultSchema()
	got := Decode(block.Block{
		ID: "b1",
		Properties: map[string]any{
			"importance": 150,
			"urgency":    -12,
		},
	}, sc)

	require.NotNil(t, got.Importance)
	assert.InDelta(t, 100, *got.Importance, 0.001)
	require.NotNil(t, got.Urgency)
	assert.InDelta(t, 0, *got.Urgency, 0.001)
}

func TestDecode_DependsOnMergesRefsAndProperty(t *testing.T) {
	t.Parallel()

	sc := DefaultSchema()
	got := Decode(block.Block{
		ID: "b1",
		Properties: map[string]any{
			"depends_on": []any{"b3", "b2", "b3"},
		},
		Refs: []block.Ref{{Type: block.RefDependsOn, To: "b2"}},
	}, sc)

	assert.Equal(t, []string{"b2", "b3"}, got.DependsOn)
}

func TestStatusLabels_ResolveIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	labels := DefaultSchema().Statuses
	status, ok := labels.Resolve("Done")
	require.True(t, ok)
	assert.Equal(t, StatusDone, status)

	status, ok = labels.Resolve("dropped")
	require.True(t, ok)
	assert.Equal(t, StatusCanceled, status)

	_, ok = labels.Resolve("bogus")
	assert.False(t, ok)
}
