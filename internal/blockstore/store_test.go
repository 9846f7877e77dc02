package blockstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "blocks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	parent := block.Block{
		ID:         "p1",
		Text:       "project",
		Tags:       []string{"task"},
		Properties: map[string]any{"status": "todo", "importance": 70},
	}
	require.NoError(t, s.UpsertBlock(ctx, parent, 0))
	require.NoError(t, s.UpsertBlock(ctx, block.Block{
		ID:       "c2",
		ParentID: "p1",
		Text:     "second step",
		Tags:     []string{"task"},
		Refs:     []block.Ref{{Type: block.RefDependsOn, To: "c1"}},
	}, 2))
	require.NoError(t, s.UpsertBlock(ctx, block.Block{
		ID:       "c1",
		ParentID: "p1",
		Text:     "first step",
		Tags:     []string{"task"},
	}, 1))
	// A block without the task tag is invisible to the engine.
	require.NoError(t, s.UpsertBlock(ctx, block.Block{ID: "note", ParentID: "p1", Text: "just a note"}, 3))

	blocks, err := s.FetchTaggedBlocks(ctx, "task")
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	byID := make(map[string]block.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}
	// Children are ordered by sort key, and include untagged blocks.
	assert.Equal(t, []string{"c1", "c2", "note"}, byID["p1"].ChildIDs)
	assert.Equal(t, map[string]any{"status": "todo", "importance": float64(70)}, byID["p1"].Properties)
	require.Len(t, byID["c2"].Refs, 1)
	assert.Equal(t, block.RefDependsOn, byID["c2"].Refs[0].Type)
	assert.Equal(t, "c1", byID["c2"].Refs[0].To)
	assert.Equal(t, []string{"task"}, byID["c1"].Tags)
}

func TestStore_SetProperty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertBlock(ctx, block.Block{ID: "b1", Tags: []string{"task"}}, 0))

	require.NoError(t, s.SetProperty(ctx, "b1", "status", "doing"))
	require.NoError(t, s.SetProperty(ctx, "b1", "importance", 42))

	blocks, err := s.FetchTaggedBlocks(ctx, "task")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "doing", blocks[0].Properties["status"])
	assert.Equal(t, float64(42), blocks[0].Properties["importance"])

	// Nil removes the property.
	require.NoError(t, s.SetProperty(ctx, "b1", "importance", nil))
	blocks, err = s.FetchTaggedBlocks(ctx, "task")
	require.NoError(t, err)
	_, present := blocks[0].Properties["importance"]
	assert.False(t, present)
}

func TestStore_SetPropertyUnknownBlock(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.SetProperty(context.Background(), "ghost", "status", "doing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_AddRemoveRef(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertBlock(ctx, block.Block{ID: "a", Tags: []string{"task"}}, 0))
	require.NoError(t, s.UpsertBlock(ctx, block.Block{ID: "b", Tags: []string{"task"}}, 1))

	require.NoError(t, s.AddRef(ctx, "a", "b", block.RefDependsOn))
	// Re-adding is a no-op, not an error.
	require.NoError(t, s.AddRef(ctx, "a", "b", block.RefDependsOn))

	blocks, err := s.FetchTaggedBlocks(ctx, "task")
	require.NoError(t, err)
	byID := map[string][]block.Ref{}
	for _, b := range blocks {
		byID[b.ID] = b.Refs
	}
	require.Len(t, byID["a"], 1)

	require.NoError(t, s.RemoveRef(ctx, "a", "b", block.RefDependsOn))
	blocks, err = s.FetchTaggedBlocks(ctx, "task")
	require.NoError(t, err)
	for _, b := range blocks {
		assert.Empty(t, b.Refs)
	}
}

func TestImportSeed(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed := `
blocks:
  - id: root
    text: launch plan
    tags: [task]
    properties:
      status: todo
      importance: 85
    children:
      - id: step-1
        text: write announcement
        tags: [task]
      - id: step-2
        text: publish announcement
        tags: [task]
        depends_on: [step-1]
      - text: untracked note
`
	n, err := ImportSeed(context.Background(), s, strings.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	blocks, err := s.FetchTaggedBlocks(context.Background(), "task")
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	byID := make(map[string]block.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}
	assert.Len(t, byID["root"].ChildIDs, 3)
	require.Len(t, byID["step-2"].Refs, 1)
	assert.Equal(t, "step-1", byID["step-2"].Refs[0].To)
	assert.Equal(t, float64(85), byID["root"].Properties["importance"])
}
