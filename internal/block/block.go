// Package block models the host's block graph as consumed by the planning engine.
package block

import (
	"context"
	"time"
)

// RefType identifies the kind of a typed cross-reference.
type RefType string

// RefDependsOn links a task block to a block it depends on.
const RefDependsOn RefType = "depends-on"

// Ref is a typed cross-reference from one block to another.
type Ref struct {
	Type  RefType
	To    string
	Alias string
}

// Block is a read-only projection of one block record from the host store.
type Block struct {
	ID           string
	ParentID     string
	ChildIDs     []string
	Text         string
	MirroredFrom string // source block id when this block is a live mirror
	Tags         []string
	Properties   map[string]any
	Refs         []Ref
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTag reports whether the block carries the given tag.
func (b Block) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Source fetches blocks from the host store.
type Source interface {
	// FetchTaggedBlocks returns every block carrying the tag, with its
	// parent/child structure, property payload, and typed references.
	FetchTaggedBlocks(ctx context.Context, tagAlias string) ([]Block, error)
}

// Mutator writes task-planning fields back to the host store.
type Mutator interface {
	SetProperty(ctx context.Context, blockID, name string, value any) error
	AddRef(ctx context.Context, fromID, toID string, typ RefType) error
	RemoveRef(ctx context.Context, fromID, toID string, typ RefType) error
}
