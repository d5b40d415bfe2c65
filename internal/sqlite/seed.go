// This file imports json-server style db.json documents.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

//go:embed seed_schema.json
var seedSchemaJSON []byte

var seedSchema = gojsonschema.NewBytesLoader(seedSchemaJSON)

// Document is a json-server style database: collection name to entities.
type Document map[string][]types.Entity

// ReadDocument parses a db.json file. Documents that do not match the seed
// schema fail with types.ErrInvalidData.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(seedSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", types.ErrInvalidData, strings.Join(problems, "; "))
}

// Seed inserts the registered collections of doc. Entities whose ID already
// exists are skipped and entities without an ID get a UUID v7. Collections
// the backend does not know are ignored. Returns the number of inserted
// entities per collection. The import is all or nothing: on error no
// collection is changed.
func (b *Backend) Seed(ctx context.Context, doc Document) (map[string]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	inserted := make(map[string]int)
	err := b.writeTx(ctx, func(tx *sql.Tx) ([]string, error) {
		var changed []string
		for _, collection := range b.registry {
			entities, ok := doc[collection]
			if !ok {
				continue
			}
			for _, e := range entities {
				if e.ID == "" {
					e.ID = generateUUID()
				}
				res, err := tx.ExecContext(ctx, insertEntitySQL, collection, e.ID, e.Name, e.Description)
				if err != nil {
					return nil, fmt.Errorf("seed %s/%s: %w", collection, e.ID, err)
				}
				if n, _ := res.RowsAffected(); n > 0 {
					inserted[collection]++
				}
			}
			if inserted[collection] > 0 {
				changed = append(changed, collection)
			}
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

// SeedFile reads a db.json file and seeds it.
func (b *Backend) SeedFile(ctx context.Context, path string) (map[string]int, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return b.Seed(ctx, doc)
}
