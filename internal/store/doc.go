// Package store persists assets and their metadata records in SQLite.
//
// It is the reference implementation of the repositories the extractors
// depend on: partial asset updates, live-photo sibling search by content
// identifier, and one metadata row per asset maintained with an
// INSERT ... ON CONFLICT(asset_id) DO UPDATE upsert. The schema is embedded
// and versioned; opening a database created by a different schema version
// fails with ErrSchemaMismatch.
package store
