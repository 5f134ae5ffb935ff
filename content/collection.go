package content

import "sort"

// Collection maps entry ids to validated entries.
type Collection struct {
	entries map[string]Entry
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{entries: make(map[string]Entry)}
}

// Put adds or replaces the entry with e.ID.
func (c *Collection) Put(e Entry) {
	c.entries[e.ID] = e
}

// Get returns the entry with id.
func (c *Collection) Get(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.entries) }

// Entries returns all entries, newest first; entries with the same date
// are ordered by id.
func (c *Collection) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Meta.PubDate.Equal(out[j].Meta.PubDate) {
			return out[i].Meta.PubDate.After(out[j].Meta.PubDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Published returns the entries that are not drafts, newest first.
func (c *Collection) Published() []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if !e.Meta.Draft {
			out = append(out, e)
		}
	}
	return out
}

// Metadata returns the id to metadata mapping handed to the site.
func (c *Collection) Metadata() map[string]PostMeta {
	out := make(map[string]PostMeta, len(c.entries))
	for id, e := range c.entries {
		out[id] = e.Meta
	}
	return out
}
