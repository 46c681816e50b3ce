package store

import (
	"context"
	"database/sql"
	"fmt"

	"medshift/internal/dataset"
)

// TableCounts holds the persisted row count per target table.
type TableCounts struct {
	Patients   int
	Encounters int
	Invoices   int
}

// Counts returns the persisted row counts.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	for _, q := range []struct {
		table string
		dest  *int
	}{
		{"patients", &counts.Patients},
		{"encounters", &counts.Encounters},
		{"billing_invoices", &counts.Invoices},
	} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table).Scan(q.dest); err != nil {
			return counts, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return counts, nil
}

func (s *Store) readTable(ctx context.Context, name string, columns []string) (*dataset.Table, error) {
	query := "SELECT "
	for i, col := range columns {
		if i > 0 {
			query += ", "
		}
		query += col
	}
	query += " FROM " + name + " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer rows.Close()

	table := dataset.New(columns...)
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		scan := make([]any, len(columns))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", name, err)
		}
		row := make([]*string, len(columns))
		for i := range cells {
			if cells[i].Valid {
				value := cells[i].String
				row[i] = &value
			}
		}
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return table, nil
}

// ReadPatients returns the persisted patients as a table in insertion order.
func (s *Store) ReadPatients(ctx context.Context) (*dataset.Table, error) {
	return s.readTable(ctx, "patients",
		[]string{"patient_uuid", "first_name", "last_name", "dob", "phone_e164", "email", "created_at"})
}

// ReadEncounters returns the persisted encounters as a table.
func (s *Store) ReadEncounters(ctx context.Context) (*dataset.Table, error) {
	return s.readTable(ctx, "encounters",
		[]string{"encounter_uuid", "patient_uuid", "encounter_ts_utc", "provider_name", "location", "status"})
}

// ReadInvoices returns the persisted invoices as a table.
func (s *Store) ReadInvoices(ctx context.Context) (*dataset.Table, error) {
	return s.readTable(ctx, "billing_invoices",
		[]string{"invoice_uuid", "patient_uuid", "invoice_total_cents", "status", "issued_date_utc", "paid_date_utc"})
}
