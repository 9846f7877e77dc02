package blockstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
)

// Store persists the block graph.
type Store struct {
	db *sql.DB
}

// NewStore creates a block store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FetchTaggedBlocks returns every block carrying the tag, with child
// lists, tags, and typed references filled in.
func (s *Store) FetchTaggedBlocks(ctx context.Context, tagAlias string) ([]block.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT b.id, b.parent_id, b.text, b.mirrored_from, b.properties_json, b.created_at, b.updated_at
FROM blocks b
JOIN block_tags t ON t.block_id = b.id
WHERE t.tag = ?
ORDER BY b.id`, tagAlias)
	if err != nil {
		return nil, fmt.Errorf("query tagged blocks: %w", err)
	}
	defer rows.Close()

	var out []block.Block
	index := make(map[string]int)
	for rows.Next() {
		var b block.Block
		var propsJSON, createdAt, updatedAt string
		if err := rows.Scan(&b.ID, &b.ParentID, &b.Text, &b.MirroredFrom, &propsJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		if err := json.Unmarshal([]byte(propsJSON), &b.Properties); err != nil {
			// Malformed payloads default instead of failing the pass.
			log.Warn().Str("block", b.ID).Err(err).Msg("malformed block properties")
			b.Properties = map[string]any{}
		}
		b.CreatedAt = parseInstant(createdAt)
		b.UpdatedAt = parseInstant(updatedAt)
		index[b.ID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tagged blocks: %w", err)
	}

	if err := s.fillChildren(ctx, out, index); err != nil {
		return nil, err
	}
	if err := s.fillTags(ctx, out, index); err != nil {
		return nil, err
	}
	if err := s.fillRefs(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) fillChildren(ctx context.Context, blocks []block.Block, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id FROM blocks WHERE parent_id != '' ORDER BY parent_id, sort_key, id`)
	if err != nil {
		return fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, parentID string
		if err := rows.Scan(&id, &parentID); err != nil {
			return fmt.Errorf("scan child: %w", err)
		}
		if i, ok := index[parentID]; ok {
			blocks[i].ChildIDs = append(blocks[i].ChildIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate children: %w", err)
	}
	return nil
}

func (s *Store) fillTags(ctx context.Context, blocks []block.Block, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT block_id, tag FROM block_tags ORDER BY block_id, tag`)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var blockID, tag string
		if err := rows.Scan(&blockID, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[blockID]; ok {
			blocks[i].Tags = append(blocks[i].Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tags: %w", err)
	}
	return nil
}

func (s *Store) fillRefs(ctx context.Context, blocks []block.Block, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, ref_type, alias FROM block_refs ORDER BY from_id, to_id`)
	if err != nil {
		return fmt.Errorf("query refs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fromID, toID, refType, alias string
		if err := rows.Scan(&fromID, &toID, &refType, &alias); err != nil {
			return fmt.Errorf("scan ref: %w", err)
		}
		if i, ok := index[fromID]; ok {
			blocks[i].Refs = append(blocks[i].Refs, block.Ref{
				Type:  block.RefType(refType),
				To:    toID,
				Alias: alias,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate refs: %w", err)
	}
	return nil
}

// SetProperty writes one property value on a block. A nil value removes
// the property.
func (s *Store) SetProperty(ctx context.Context, blockID, name string, value any) error {
	row := s.db.QueryRowContext(ctx, `SELECT properties_json FROM blocks WHERE id=?`, blockID)
	var propsJSON string
	if err := row.Scan(&propsJSON); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("block %s not found", blockID)
		}
		return fmt.Errorf("read block properties: %w", err)
	}
	props := map[string]any{}
	if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
		props = map[string]any{}
	}
	if value == nil {
		delete(props, name)
	} else {
		props[name] = value
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal block properties: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `UPDATE blocks SET properties_json=?, updated_at=? WHERE id=?`,
		string(encoded), now, blockID); err != nil {
		return fmt.Errorf("update block properties: %w", err)
	}
	return nil
}

// AddRef inserts a typed reference.
func (s *Store) AddRef(ctx context.Context, fromID, toID string, typ block.RefType) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO block_refs(from_id, to_id, ref_type) VALUES(?, ?, ?)`,
		fromID, toID, string(typ)); err != nil {
		return fmt.Errorf("insert ref: %w", err)
	}
	return nil
}

// RemoveRef deletes a typed reference.
func (s *Store) RemoveRef(ctx context.Context, fromID, toID string, typ block.RefType) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM block_refs WHERE from_id=? AND to_id=? AND ref_type=?`,
		fromID, toID, string(typ)); err != nil {
		return fmt.Errorf("delete ref: %w", err)
	}
	return nil
}

// UpsertBlock inserts or replaces a block record.
func (s *Store) UpsertBlock(ctx context.Context, b block.Block, sortKey int) error {
	props := b.Properties
	if props == nil {
		props = map[string]any{}
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal block properties: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO blocks(id, parent_id, text, mirrored_from, sort_key, properties_json, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  parent_id=excluded.parent_id,
  text=excluded.text,
  mirrored_from=excluded.mirrored_from,
  sort_key=excluded.sort_key,
  properties_json=excluded.properties_json,
  updated_at=excluded.updated_at`,
		b.ID, b.ParentID, b.Text, b.MirroredFrom, sortKey, string(encoded), now, now); err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}
	for _, ref := range b.Refs {
		if err := s.AddRef(ctx, b.ID, ref.To, ref.Type); err != nil {
			return err
		}
	}
	for _, tag := range b.Tags {
		if err := s.AddTag(ctx, b.ID, tag); err != nil {
			return err
		}
	}
	return nil
}

// AddTag tags a block.
func (s *Store) AddTag(ctx context.Context, blockID, tag string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO block_tags(block_id, tag) VALUES(?, ?)`, blockID, tag); err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func parseInstant(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
