// Package reconcile cross-checks the migrated target data against the
// legacy source: row counts, referential integrity, null and numeric
// distribution consistency, and informational dataset digests. The
// thresholds here decide whether a migration run is certified PASS or
// flagged for review.
package reconcile
