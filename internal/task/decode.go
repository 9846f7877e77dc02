package task

import (
	"errors"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
)

// Decode projects one block into a Task using the schema's property names.
// Malformed or missing property values fall back to schema defaults; a bad
// value never fails the block, let alone the pass. Graph fields (parent,
// children, canonical dependency ids) are filled by the loader.
func Decode(b block.Block, sc Schema) Task {
	t := Task{
		ID:     b.ID,
		Text:   b.Text,
		Status: StatusTodo,
	}
	props := b.Properties

	if label, ok := decodeString(props, sc.Props.Status); ok {
		if status, ok := sc.Statuses.Resolve(label); ok {
			t.Status = status
		}
	}
	t.StartTime = decodeTime(props, sc.Props.StartTime)
	t.EndTime = decodeTime(props, sc.Props.EndTime)
	t.CompletedAt = decodeTime(props, sc.Props.CompletedAt)
	t.StatusChangedAt = decodeTime(props, sc.Props.StatusChangedAt)
	t.Importance = decodeScore(props, sc.Props.Importance)
	t.Urgency = decodeScore(props, sc.Props.Urgency)
	t.Effort = decodeScore(props, sc.Props.Effort)
	t.Star = decodeBool(props, sc.Props.Star)

	t.DependsOn = dependsOnTargets(b, sc)
	if mode, ok := decodeString(props, sc.Props.DependsMode); ok {
		if strings.EqualFold(strings.TrimSpace(mode), "any") {
			t.DependsMode = DependsAny
		}
	}
	if delay, ok := decodeFloat(props, sc.Props.DependencyDelay); ok && delay > 0 {
		t.DependencyDelay = delay
	}
	return t
}

// dependsOnTargets merges depends-on refs with the property-level id list,
// refs first, deduplicated in order.
func dependsOnTargets(b block.Block, sc Schema) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, ref := range b.Refs {
		if ref.Type == block.RefDependsOn {
			add(ref.To)
		}
	}
	var ids []string
	if decodeValue(b.Properties[sc.Props.DependsOn], &ids) == nil {
		for _, id := range ids {
			add(id)
		}
	}
	return out
}

// decodeValue is the single tolerant decode path for property payloads.
// Each field is decoded independently so one malformed value cannot poison
// its neighbors.
func decodeValue(raw any, out any) error {
	if raw == nil {
		return errMissing
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var errMissing = errors.New("property missing")

func decodeString(props map[string]any, key string) (string, bool) {
	var s string
	if decodeValue(props[key], &s) != nil {
		return "", false
	}
	return s, true
}

func decodeFloat(props map[string]any, key string) (float64, bool) {
	var f float64
	if decodeValue(props[key], &f) != nil {
		return 0, false
	}
	return f, true
}

func decodeScore(props map[string]any, key string) *float64 {
	f, ok := decodeFloat(props, key)
	if !ok {
		return nil
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return &f
}

func decodeBool(props map[string]any, key string) bool {
	var b bool
	if decodeValue(props[key], &b) != nil {
		return false
	}
	return b
}

func decodeTime(props map[string]any, key string) *time.Time {
	var ts time.Time
	if decodeValue(props[key], &ts) != nil || ts.IsZero() {
		return nil
	}
	return &ts
}
