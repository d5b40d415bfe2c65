package types

// Entity is a single record of a named collection (a hero, a villain, ...).
// All collection kinds share this shape.
type Entity struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Collection is the ordered, id-unique sequence of entities cached for one
// collection name. Order reflects fetch and creation order.
type Collection []Entity

// Clone returns a copy of c that shares no backing array with it.
// A nil collection clones to an empty, non-nil one.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// IndexOf returns the position of the entity with the given ID, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Append returns a new collection with e added at the end.
func (c Collection) Append(e Entity) Collection {
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, e)
}

// Replace returns a new collection where the entity whose ID matches e.ID is
// replaced by e in place. ok is false when no entity matches; the returned
// collection is then c itself.
func (c Collection) Replace(e Entity) (out Collection, ok bool) {
	i := c.IndexOf(e.ID)
	if i < 0 {
		return c, false
	}
	out = c.Clone()
	out[i] = e
	return out, true
}

// Remove returns a new collection without any entity whose ID equals id.
func (c Collection) Remove(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, e := range c {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
