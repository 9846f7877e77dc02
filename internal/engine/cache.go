package engine

// cache holds the most recent full evaluation pass. It is invalidated
// explicitly by mutations, never by reads; between invalidations the same
// pass is returned, reference-identical. Sequential access only.
type cache struct {
	pass  []*Evaluation
	index map[string]*Evaluation
	valid bool
}

func (c *cache) get() ([]*Evaluation, bool) {
	if !c.valid {
		return nil, false
	}
	return c.pass, true
}

func (c *cache) lookup(id string) (*Evaluation, bool) {
	if !c.valid {
		return nil, false
	}
	ev, ok := c.index[id]
	return ev, ok
}

func (c *cache) put(pass []*Evaluation) {
	index := make(map[string]*Evaluation, len(pass))
	for _, ev := range pass {
		index[ev.Task.ID] = ev
	}
	c.pass = pass
	c.index = index
	c.valid = true
}

func (c *cache) invalidate() {
	c.pass = nil
	c.index = nil
	c.valid = false
}
