package store

import (
	"context"
	"fmt"
	"time"

	"medshift/internal/record"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = time.RFC3339
)

// UpsertStats reports how many rows an upsert inserted versus updated.
type UpsertStats struct {
	Inserted int
	Updated  int
}

func (s *Store) exists(ctx context.Context, table, keyColumn, key string) (bool, error) {
	var found int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", table, keyColumn)
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&found); err != nil {
		return false, fmt.Errorf("check existing %s: %w", table, err)
	}
	return found > 0, nil
}

// UpsertPatients inserts or updates patients keyed on patient_uuid. The
// identifier, dob, and created_at are never touched on conflict; the
// mutable contact fields are.
func (s *Store) UpsertPatients(ctx context.Context, patients []record.Patient) (UpsertStats, error) {
	var stats UpsertStats
	for _, p := range patients {
		existed, err := s.exists(ctx, "patients", "patient_uuid", p.PatientUUID)
		if err != nil {
			return stats, err
		}
		_, err = s.db.ExecContext(ctx, `
            INSERT INTO patients
            (patient_uuid, first_name, last_name, dob, phone_e164, email, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(patient_uuid) DO UPDATE SET
                first_name = excluded.first_name,
                last_name = excluded.last_name,
                phone_e164 = excluded.phone_e164,
                email = excluded.email`,
			p.PatientUUID,
			p.FirstName,
			p.LastName,
			p.DOB.Format(dateFormat),
			p.PhoneE164,
			p.Email,
			p.CreatedAtUTC.Format(timestampFormat),
		)
		if err != nil {
			return stats, fmt.Errorf("upsert patient %s: %w", p.PatientUUID, err)
		}
		if existed {
			stats.Updated++
		} else {
			stats.Inserted++
		}
	}
	return stats, nil
}

// UpsertEncounters inserts or updates encounters keyed on encounter_uuid.
func (s *Store) UpsertEncounters(ctx context.Context, encounters []record.Encounter) (UpsertStats, error) {
	var stats UpsertStats
	for _, e := range encounters {
		existed, err := s.exists(ctx, "encounters", "encounter_uuid", e.EncounterUUID)
		if err != nil {
			return stats, err
		}
		_, err = s.db.ExecContext(ctx, `
            INSERT INTO encounters
            (encounter_uuid, patient_uuid, encounter_ts_utc, provider_name, location, status)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT(encounter_uuid) DO UPDATE SET
                encounter_ts_utc = excluded.encounter_ts_utc,
                provider_name = excluded.provider_name,
                location = excluded.location,
                status = excluded.status`,
			e.EncounterUUID,
			e.PatientUUID,
			e.EncounterTSUTC.Format(timestampFormat),
			e.ProviderName,
			e.Location,
			e.Status,
		)
		if err != nil {
			return stats, fmt.Errorf("upsert encounter %s: %w", e.EncounterUUID, err)
		}
		if existed {
			stats.Updated++
		} else {
			stats.Inserted++
		}
	}
	return stats, nil
}

// UpsertInvoices inserts or updates invoices keyed on invoice_uuid. The
// issued date is immutable; amount, status, and paid date follow the source.
func (s *Store) UpsertInvoices(ctx context.Context, invoices []record.Invoice) (UpsertStats, error) {
	var stats UpsertStats
	for _, inv := range invoices {
		existed, err := s.exists(ctx, "billing_invoices", "invoice_uuid", inv.InvoiceUUID)
		if err != nil {
			return stats, err
		}
		var paid *string
		if inv.PaidUTC != nil {
			formatted := inv.PaidUTC.Format(timestampFormat)
			paid = &formatted
		}
		_, err = s.db.ExecContext(ctx, `
            INSERT INTO billing_invoices
            (invoice_uuid, patient_uuid, invoice_total_cents, status, issued_date_utc, paid_date_utc)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT(invoice_uuid) DO UPDATE SET
                invoice_total_cents = excluded.invoice_total_cents,
                status = excluded.status,
                paid_date_utc = excluded.paid_date_utc`,
			inv.InvoiceUUID,
			inv.PatientUUID,
			inv.TotalCents,
			inv.Status,
			inv.IssuedUTC.Format(timestampFormat),
			paid,
		)
		if err != nil {
			return stats, fmt.Errorf("upsert invoice %s: %w", inv.InvoiceUUID, err)
		}
		if existed {
			stats.Updated++
		} else {
			stats.Inserted++
		}
	}
	return stats, nil
}
