// Package sqlite implements a local entity backend using SQLite as the query
// engine and one JSONL file per collection as the source of truth. The
// Backend satisfies types.Gateway, so a Store can run directly on top of it,
// and it backs the REST API served by internal/api.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the SQLite cache file inside DataDir. It is rebuilt from the
// JSONL files on every Attach.
const dbFileName = "herostore.db"

// Backend stores entity collections on local disk.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	registry types.Registry
	db       *sql.DB
	logger   log.Interface
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{logger: log.Log}
}

// SetLogger replaces the logger used for persistence events.
func (b *Backend) SetLogger(l log.Interface) {
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

// Attach creates DataDir if needed, rebuilds the SQLite schema and loads
// every registered collection from its JSONL file.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	// JSONL is authoritative; start from an empty database.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// One connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	registry := config.Registry()
	for _, name := range registry {
		if err := ensureJSONL(jsonlFile(dataDir, name)); err != nil {
			db.Close()
			return fmt.Errorf("init %s JSONL: %w", name, err)
		}
	}
	if err := loadAllJSONL(db, dataDir, registry); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.config = config
	b.registry = registry
	b.db = db
	b.attached = true

	b.logger.WithFields(log.Fields{
		"data_dir":    dataDir,
		"collections": len(registry),
	}).Debug("backend attached")
	return nil
}

// Detach closes the SQLite connection. After Detach every operation returns
// ErrBackendDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Collections returns the registered collection names.
func (b *Backend) Collections() types.Registry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.registry
}

// List returns every entity of the collection in insertion order.
func (b *Backend) List(ctx context.Context, collection string) ([]types.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(collection); err != nil {
		return nil, err
	}
	return b.listLocked(ctx, collection)
}

// Get returns the entity with the given ID.
// Returns ErrNotFound if no entity exists with that ID.
func (b *Backend) Get(ctx context.Context, collection, id string) (types.Entity, error) {
	if id == "" {
		return types.Entity{}, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.check(collection); err != nil {
		return types.Entity{}, err
	}

	e := types.Entity{ID: id}
	err := b.db.QueryRowContext(ctx,
		`SELECT name, description FROM entities WHERE collection = ? AND entity_id = ?`,
		collection, id).Scan(&e.Name, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entity{}, types.ErrNotFound
	}
	if err != nil {
		return types.Entity{}, err
	}
	return e, nil
}

// Create stores draft at the end of the collection. When draft.ID is empty a
// new UUID v7 is generated. Returns ErrDuplicateID if the ID is taken.
func (b *Backend) Create(ctx context.Context, collection string, draft types.Entity) (types.Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.check(collection); err != nil {
		return types.Entity{}, err
	}
	if draft.ID == "" {
		draft.ID = generateUUID()
	}

	err := b.writeTx(ctx, func(tx *sql.Tx) ([]string, error) {
		res, err := tx.ExecContext(ctx, insertEntitySQL, collection, draft.ID, draft.Name, draft.Description)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, types.ErrDuplicateID
		}
		return []string{collection}, nil
	})
	if err != nil {
		return types.Entity{}, err
	}
	return draft, nil
}

// Update replaces the stored name and description of e.ID.
// Returns ErrNotFound if no entity exists with that ID.
func (b *Backend) Update(ctx context.Context, collection string, e types.Entity) (types.Entity, error) {
	if e.ID == "" {
		return types.Entity{}, types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.check(collection); err != nil {
		return types.Entity{}, err
	}

	err := b.writeTx(ctx, func(tx *sql.Tx) ([]string, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE entities SET name = ?, description = ? WHERE collection = ? AND entity_id = ?`,
			e.Name, e.Description, collection, e.ID)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, types.ErrNotFound
		}
		return []string{collection}, nil
	})
	if err != nil {
		return types.Entity{}, err
	}
	return e, nil
}

// Delete removes the entity with the given ID.
// Returns ErrNotFound if no entity exists with that ID.
func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.check(collection); err != nil {
		return err
	}

	return b.writeTx(ctx, func(tx *sql.Tx) ([]string, error) {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM entities WHERE collection = ? AND entity_id = ?`, collection, id)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, types.ErrNotFound
		}
		return []string{collection}, nil
	})
}

// check verifies the backend is attached and the collection registered.
// The caller must hold b.mu.
func (b *Backend) check(collection string) error {
	if !b.attached {
		return types.ErrBackendDetached
	}
	return b.registry.Check(collection)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (b *Backend) listLocked(ctx context.Context, collection string) ([]types.Entity, error) {
	return listFrom(ctx, b.db, collection)
}

func listFrom(ctx context.Context, q querier, collection string) ([]types.Entity, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT entity_id, name, description FROM entities WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.Entity{}
	for rows.Next() {
		var e types.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// writeTx runs fn in a transaction, rewrites the JSONL file of every
// collection fn reports as changed and commits. The transaction commits only
// after every file is written. When a write or the commit fails, the files
// already rewritten are restored from the rolled back database, so an error
// leaves both SQLite and JSONL as they were. The caller must hold the b.mu
// write lock.
func (b *Backend) writeTx(ctx context.Context, fn func(tx *sql.Tx) ([]string, error)) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	changed, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	var written []string
	for _, collection := range changed {
		if err := b.persist(ctx, tx, collection); err != nil {
			tx.Rollback()
			b.restore(written)
			return err
		}
		written = append(written, collection)
	}

	if err := tx.Commit(); err != nil {
		b.restore(written)
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// persist rewrites the collection's JSONL file from q.
func (b *Backend) persist(ctx context.Context, q querier, collection string) error {
	entities, err := listFrom(ctx, q, collection)
	if err != nil {
		return fmt.Errorf("persist %s: %w", collection, err)
	}
	if err := writeJSONL(jsonlFile(b.config.DataDir, collection), entities); err != nil {
		return fmt.Errorf("persist %s: %w", collection, err)
	}
	b.logger.WithFields(log.Fields{
		"collection": collection,
		"count":      len(entities),
	}).Debug("persisted")
	return nil
}

// restore rewrites the JSONL files of collections from the committed state.
func (b *Backend) restore(collections []string) {
	for _, collection := range collections {
		if err := b.persist(context.Background(), b.db, collection); err != nil {
			b.logger.WithError(err).WithField("collection", collection).Error("restoring JSONL failed")
		}
	}
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
