package store

import (
	"context"
	"strings"
	"sync"

	"github.com/apex/log"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// Store caches named collections of entities on top of a Gateway.
type Store struct {
	gateway  types.Gateway
	registry types.Registry
	logger   log.Interface
	strict   bool

	mu      sync.RWMutex
	entries map[string]*entry
}

// entry is the cached state of one collection.
type entry struct {
	entities types.Collection
	status   types.Status
	err      error

	issued  uint64 // sequence number of the last issued command
	version uint64 // bumped on every applied transition
}

// Snapshot is the view-facing state of one collection. Entities is a copy the
// caller may keep; Status and Err describe the most recently issued command.
type Snapshot struct {
	Entities types.Collection
	Status   types.Status
	Err      error
}

// New creates a Store over gw.
func New(gw types.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway:  gw,
		registry: types.Registry(types.DefaultCollections),
		logger:   log.Log,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the cached collection and command status for name. A
// collection no command has touched yet reports StatusIdle and no entities.
func (s *Store) State(name string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return Snapshot{Entities: types.Collection{}, Status: types.StatusIdle}
	}
	return Snapshot{
		Entities: e.entities.Clone(),
		Status:   e.status,
		Err:      e.err,
	}
}

// Find returns the cached entity with the given ID.
func (s *Store) Find(name, id string) (types.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return types.Entity{}, false
	}
	i := e.entities.IndexOf(id)
	if i < 0 {
		return types.Entity{}, false
	}
	return e.entities[i], true
}

// Search returns the cached entities whose name or description contains term,
// ignoring case, in collection order. An empty term matches everything.
func (s *Store) Search(name, term string) types.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := types.Collection{}
	e, ok := s.entries[name]
	if !ok {
		return out
	}
	term = strings.ToLower(strings.TrimSpace(term))
	for _, ent := range e.entities {
		if term == "" ||
			strings.Contains(strings.ToLower(ent.Name), term) ||
			strings.Contains(strings.ToLower(ent.Description), term) {
			out = append(out, ent)
		}
	}
	return out
}

// FetchAll lists the collection through the gateway and replaces the cached
// collection with the result. On failure the cache is left untouched.
func (s *Store) FetchAll(ctx context.Context, name string) (types.Collection, error) {
	op := newOperation(OpFetchAll, name)
	s.fetchAll(ctx, op)
	if err := op.Err(); err != nil {
		return nil, err
	}
	return op.Entities(), nil
}

// CreateOne creates draft through the gateway and appends the confirmed
// entity to the cached collection.
func (s *Store) CreateOne(ctx context.Context, name string, draft types.Entity) (types.Entity, error) {
	op := newOperation(OpCreateOne, name)
	s.createOne(ctx, op, draft)
	return op.Entity(), op.Err()
}

// UpdateOne updates e through the gateway and replaces the cached entity with
// the same ID in place. If the cache holds no such entity the cache is left
// as is and no error is reported.
func (s *Store) UpdateOne(ctx context.Context, name string, e types.Entity) (types.Entity, error) {
	op := newOperation(OpUpdateOne, name)
	s.updateOne(ctx, op, e)
	return op.Entity(), op.Err()
}

// DeleteOne deletes target through the gateway and removes every cached
// entity with target's ID.
func (s *Store) DeleteOne(ctx context.Context, name string, target types.Entity) error {
	op := newOperation(OpDeleteOne, name)
	s.deleteOne(ctx, op, target)
	return op.Err()
}

// StartFetchAll runs FetchAll in the background and returns its Operation.
func (s *Store) StartFetchAll(ctx context.Context, name string) *Operation {
	op := newOperation(OpFetchAll, name)
	op.start()
	go s.fetchAll(ctx, op)
	return op
}

// StartCreateOne runs CreateOne in the background and returns its Operation.
func (s *Store) StartCreateOne(ctx context.Context, name string, draft types.Entity) *Operation {
	op := newOperation(OpCreateOne, name)
	op.start()
	go s.createOne(ctx, op, draft)
	return op
}

// StartUpdateOne runs UpdateOne in the background and returns its Operation.
func (s *Store) StartUpdateOne(ctx context.Context, name string, e types.Entity) *Operation {
	op := newOperation(OpUpdateOne, name)
	op.start()
	go s.updateOne(ctx, op, e)
	return op
}

// StartDeleteOne runs DeleteOne in the background and returns its Operation.
func (s *Store) StartDeleteOne(ctx context.Context, name string, target types.Entity) *Operation {
	op := newOperation(OpDeleteOne, name)
	op.start()
	go s.deleteOne(ctx, op, target)
	return op
}

func (s *Store) fetchAll(ctx context.Context, op *Operation) {
	seq, version, err := s.issue(op)
	if err != nil {
		return
	}

	items, err := s.gateway.List(ctx, op.Collection)
	if err != nil {
		s.settle(op, seq, err)
		return
	}

	fetched := types.Collection(items).Clone()
	s.apply(op, seq, func(e *entry) bool {
		if s.strict && e.version != version {
			s.log(op).Debug("discarding stale fetch result")
			return false
		}
		e.entities = fetched
		return true
	})
	op.succeed(types.Entity{}, fetched)
}

func (s *Store) createOne(ctx context.Context, op *Operation, draft types.Entity) {
	seq, _, err := s.issue(op)
	if err != nil {
		return
	}

	created, err := s.gateway.Create(ctx, op.Collection, draft)
	if err != nil {
		s.settle(op, seq, err)
		return
	}

	s.apply(op, seq, func(e *entry) bool {
		e.entities = e.entities.Append(created)
		return true
	})
	op.succeed(created, nil)
}

func (s *Store) updateOne(ctx context.Context, op *Operation, target types.Entity) {
	if target.ID == "" {
		op.start()
		op.fail(types.ErrInvalidID)
		return
	}
	seq, _, err := s.issue(op)
	if err != nil {
		return
	}

	updated, err := s.gateway.Update(ctx, op.Collection, target)
	if err != nil {
		s.settle(op, seq, err)
		return
	}

	s.apply(op, seq, func(e *entry) bool {
		next, ok := e.entities.Replace(updated)
		if !ok {
			s.log(op).WithField("id", updated.ID).Debug("updated entity not in cache")
			return false
		}
		e.entities = next
		return true
	})
	op.succeed(updated, nil)
}

func (s *Store) deleteOne(ctx context.Context, op *Operation, target types.Entity) {
	if target.ID == "" {
		op.start()
		op.fail(types.ErrInvalidID)
		return
	}
	seq, _, err := s.issue(op)
	if err != nil {
		return
	}

	if err := s.gateway.Delete(ctx, op.Collection, target.ID); err != nil {
		s.settle(op, seq, err)
		return
	}

	s.apply(op, seq, func(e *entry) bool {
		e.entities = e.entities.Remove(target.ID)
		return true
	})
	op.succeed(target, nil)
}

// issue registers a new command against the collection entry, creating the
// entry on first use, and marks it loading. It returns the command sequence
// number and the collection version at issue time. Unknown collections fail
// the operation immediately.
func (s *Store) issue(op *Operation) (seq, version uint64, err error) {
	op.start()
	if err := s.registry.Check(op.Collection); err != nil {
		op.fail(err)
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[op.Collection]
	if !ok {
		e = &entry{entities: types.Collection{}, status: types.StatusIdle}
		s.entries[op.Collection] = e
	}
	e.issued++
	e.status = types.StatusLoading
	e.err = nil
	return e.issued, e.version, nil
}

// apply runs transition under the write lock and records success on the
// entry. transition reports whether it changed the collection.
func (s *Store) apply(op *Operation, seq uint64, transition func(e *entry) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[op.Collection]
	if transition(e) {
		e.version++
	}
	if e.issued == seq {
		e.status = types.StatusSuccess
		e.err = nil
	}
	s.log(op).WithField("count", len(e.entities)).Debug("applied")
}

// settle records a failed command. The cached collection is not touched.
func (s *Store) settle(op *Operation, seq uint64, err error) {
	s.mu.Lock()
	e := s.entries[op.Collection]
	if e.issued == seq {
		e.status = types.StatusError
		e.err = err
	}
	s.mu.Unlock()

	s.log(op).WithError(err).Warn("gateway call failed")
	op.fail(err)
}

func (s *Store) log(op *Operation) *log.Entry {
	return s.logger.WithFields(log.Fields{
		"collection": op.Collection,
		"op":         string(op.Kind),
	})
}
