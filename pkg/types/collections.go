package types

import "slices"

// Standard collection names.
const (
	CollectionHeroes   = "heroes"
	CollectionVillains = "villains"
	CollectionBoys     = "boys"
)

// DefaultCollections lists the collections registered when none are configured.
var DefaultCollections = []string{
	CollectionHeroes,
	CollectionVillains,
	CollectionBoys,
}

// Registry is the set of collection names a component accepts.
type Registry []string

// Has reports whether name is registered.
func (r Registry) Has(name string) bool {
	return slices.Contains(r, name)
}

// Check returns ErrCollectionNotFound if name is not registered.
func (r Registry) Check(name string) error {
	if !r.Has(name) {
		return ErrCollectionNotFound
	}
	return nil
}
