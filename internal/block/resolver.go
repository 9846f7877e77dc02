package block

// Resolver canonicalizes raw block ids to logical task ids, collapsing
// mirrored block records to one identity. When both a source block and its
// live mirror are present in the working set, the live mirror's id is
// canonical; otherwise the source id stands on its own.
type Resolver struct {
	liveFor map[string]string // source id -> live mirror id
}

// NewResolver indexes the mirror relationships of one working set.
func NewResolver(blocks []Block) *Resolver {
	r := &Resolver{liveFor: make(map[string]string)}
	for _, b := range blocks {
		if b.MirroredFrom == "" {
			continue
		}
		r.liveFor[b.MirroredFrom] = b.ID
	}
	return r
}

// Canonical returns the canonical task id for a raw block id. Ids that do
// not resolve are returned unchanged.
func (r *Resolver) Canonical(rawID string) string {
	id := rawID
	seen := make(map[string]bool)
	for {
		next, ok := r.liveFor[id]
		if !ok || seen[id] {
			return id
		}
		seen[id] = true
		id = next
	}
}
