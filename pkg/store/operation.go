package store

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// OpKind names the command an Operation tracks.
type OpKind string

// Command kinds, one per gateway verb.
const (
	OpFetchAll  OpKind = "fetch"
	OpCreateOne OpKind = "create"
	OpUpdateOne OpKind = "update"
	OpDeleteOne OpKind = "delete"
)

// Operation is the pending state of one command invocation. It moves
// idle → loading → success or error exactly once and is safe for concurrent
// use.
type Operation struct {
	Kind       OpKind
	Collection string

	mu       sync.Mutex
	status   types.Status
	entity   types.Entity
	entities types.Collection
	err      error
	done     chan struct{}
}

func newOperation(kind OpKind, collection string) *Operation {
	return &Operation{
		Kind:       kind,
		Collection: collection,
		status:     types.StatusIdle,
		done:       make(chan struct{}),
	}
}

// Status returns the current state of the operation.
func (o *Operation) Status() types.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Err returns the failure of a settled operation, or nil.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Entity returns the gateway-confirmed entity of a successful create or
// update.
func (o *Operation) Entity() types.Entity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.entity
}

// Entities returns the fetched collection of a successful fetch.
func (o *Operation) Entities() types.Collection {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.entities.Clone()
}

// Done is closed once the operation has settled.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation settles or ctx is done. It returns the
// operation error, or ctx.Err() if the wait was abandoned. Abandoning the
// wait does not cancel the operation.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Operation) start() {
	o.mu.Lock()
	o.status = types.StatusLoading
	o.mu.Unlock()
}

func (o *Operation) succeed(entity types.Entity, entities types.Collection) {
	o.mu.Lock()
	o.status = types.StatusSuccess
	o.entity = entity
	o.entities = entities
	o.mu.Unlock()
	close(o.done)
}

func (o *Operation) fail(err error) {
	o.mu.Lock()
	o.status = types.StatusError
	o.err = err
	o.mu.Unlock()
	close(o.done)
}
