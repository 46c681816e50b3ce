// Package store persists validated records into the target SQLite database
// with idempotent upserts keyed on the derived identifiers, and reads the
// persisted tables back for reconciliation.
package store
