package blockstore

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
)

// SeedBlock is one outline entry in a YAML seed file. Children nest.
type SeedBlock struct {
	ID           string         `yaml:"id"`
	Text         string         `yaml:"text"`
	MirroredFrom string         `yaml:"mirrored_from"`
	Tags         []string       `yaml:"tags"`
	Properties   map[string]any `yaml:"properties"`
	DependsOn    []string       `yaml:"depends_on"`
	Children     []SeedBlock    `yaml:"children"`
}

// SeedFile is the root of a YAML outline import.
type SeedFile struct {
	Blocks []SeedBlock `yaml:"blocks"`
}

// ImportSeed reads a YAML outline and writes it into the store. Blocks
// without an id are assigned one. Returns the number of blocks written.
func ImportSeed(ctx context.Context, s *Store, r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parse seed: %w", err)
	}

	n := 0
	var write func(sb SeedBlock, parentID string, sortKey int) error
	write = func(sb SeedBlock, parentID string, sortKey int) error {
		if sb.ID == "" {
			sb.ID = uuid.NewString()
		}
		b := block.Block{
			ID:           sb.ID,
			ParentID:     parentID,
			Text:         sb.Text,
			MirroredFrom: sb.MirroredFrom,
			Tags:         sb.Tags,
			Properties:   sb.Properties,
		}
		for _, target := range sb.DependsOn {
			b.Refs = append(b.Refs, block.Ref{Type: block.RefDependsOn, To: target})
		}
		if err := s.UpsertBlock(ctx, b, sortKey); err != nil {
			return fmt.Errorf("import block %s: %w", sb.ID, err)
		}
		n++
		for i, child := range sb.Children {
			if err := write(child, sb.ID, i); err != nil {
				return err
			}
		}
		return nil
	}
	for i, sb := range seed.Blocks {
		if err := write(sb, "", i); err != nil {
			return n, err
		}
	}
	return n, nil
}
