// Package record defines the validated target-schema records and the
// row-by-row validator that partitions raw source tables into accepted
// records and rejected rows. Validation failures are always scoped to a
// single row; the run never aborts on bad data.
package record
