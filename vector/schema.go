package vector

import (
	"database/sql"
)

const samplesSchema = `
CREATE TABLE IF NOT EXISTS samples (
    dataset_id TEXT NOT NULL,
    id         TEXT NOT NULL,
    label      TEXT NOT NULL,
    features   BLOB,
    PRIMARY KEY(dataset_id, id)
);
`

const indexSchema = `
CREATE TABLE IF NOT EXISTS kd_index (
    dataset_id TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    blob       BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates the samples and kd_index tables in the provided
// database if they do not already exist, along with the triggers that
// invalidate persisted indexes.
func EnsureSchema(db *sql.DB) error {
	ddls := append([]string{samplesSchema, indexSchema}, InvalidationTriggers("", "")...)
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
