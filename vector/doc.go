// Package vector defines the labeled sample model and SQLite-backed
// utilities used by this project. It includes:
//   - Sample model and Store interface
//   - SQLiteStore: durable storage for samples and persisted tree indexes
//   - Schema helpers to create the samples and kd_index tables
//   - Feature encoding (BLOB) and distance functions
package vector
