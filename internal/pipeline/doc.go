// Package pipeline orchestrates a migration run end to end: source CSV
// loading, validation, target persistence (CSV and SQLite), failure exports,
// reconciliation, and report generation. A file lock on the target directory
// keeps concurrent runs from interleaving.
package pipeline
