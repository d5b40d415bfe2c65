// This file implements JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

const insertEntitySQL = `INSERT OR IGNORE INTO entities (collection, entity_id, name, description) VALUES (?, ?, ?, ?)`

// loadAllJSONL reads each registered collection's JSONL file from dataDir and
// inserts its records into SQLite in file order. Loading is transactional:
// all collections load or the database stays empty. Duplicate ids within a
// file keep their first occurrence.
func loadAllJSONL(db *sql.DB, dataDir string, registry types.Registry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEntitySQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, collection := range registry {
		records, err := readJSONL(jsonlFile(dataDir, collection))
		if err != nil {
			return fmt.Errorf("reading %s: %w", collection, err)
		}
		for _, e := range records {
			if _, err := stmt.Exec(collection, e.ID, e.Name, e.Description); err != nil {
				return fmt.Errorf("loading %s/%s: %w", collection, e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
