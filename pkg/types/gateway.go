package types

import "context"

// Gateway performs the CRUD calls for a named collection against the backing
// store (a REST API, a local database). The EntityStore consumes its results
// and never implements transport itself.
type Gateway interface {
	// List returns every entity of the collection in backend order.
	List(ctx context.Context, collection string) ([]Entity, error)

	// Create stores draft and returns the confirmed entity, including the
	// assigned ID.
	Create(ctx context.Context, collection string, draft Entity) (Entity, error)

	// Update stores e and returns the confirmed updated entity.
	Update(ctx context.Context, collection string, e Entity) (Entity, error)

	// Delete removes the entity with the given ID.
	Delete(ctx context.Context, collection, id string) error
}

// EntityGetter is implemented by gateways that can read a single entity.
type EntityGetter interface {
	Get(ctx context.Context, collection, id string) (Entity, error)
}
