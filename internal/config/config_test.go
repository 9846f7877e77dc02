package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

func TestSchema_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	sc := Config{}.Schema()
	assert.Equal(t, "task", sc.TagAlias)
	assert.Equal(t, []string{"done"}, sc.Statuses.Done)
	assert.Equal(t, "depends_on", sc.Props.DependsOn)
}

func TestSchema_HostOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		TagAlias: "todo-item",
		Statuses: StatusConfig{
			Done:     []string{"finished", "shipped"},
			Canceled: []string{"wontfix"},
		},
		Properties: PropertyConfig{
			Importance: "prio",
		},
	}
	sc := cfg.Schema()

	assert.Equal(t, "todo-item", sc.TagAlias)
	assert.Equal(t, "prio", sc.Props.Importance)
	// Untouched entries keep their defaults.
	assert.Equal(t, "urgency", sc.Props.Urgency)
	assert.Equal(t, []string{"todo"}, sc.Statuses.Todo)

	status, ok := sc.Statuses.Resolve("shipped")
	require.True(t, ok)
	assert.Equal(t, task.StatusDone, status)
	status, ok = sc.Statuses.Resolve("wontfix")
	require.True(t, ok)
	assert.Equal(t, task.StatusCanceled, status)
}

func TestValidateSettings_AcceptsValidConfig(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"tag_alias": "task",
		"statuses": map[string]any{
			"done": []any{"finished"},
		},
		"properties": map[string]any{
			"importance": "prio",
		},
	}
	assert.NoError(t, ValidateSettings(settings))
}

func TestValidateSettings_RejectsUnknownKeysAndBadTypes(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidateSettings(map[string]any{"tag": "task"}))
	assert.Error(t, ValidateSettings(map[string]any{"tag_alias": 12}))
	assert.Error(t, ValidateSettings(map[string]any{
		"statuses": map[string]any{"done": "finished"},
	}))
}
