package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"medshift/internal/identity"
	"medshift/internal/record"
	"medshift/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePatient(legacyID int64) record.Patient {
	phone := "+18185551234"
	return record.Patient{
		PatientUUID:  identity.Derive(identity.NamespacePatient, legacyID),
		FirstName:    "John",
		LastName:     "Doe",
		DOB:          time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		PhoneE164:    &phone,
		Email:        "john.doe@example.com",
		CreatedAtUTC: time.Date(2022, 1, 1, 15, 30, 0, 0, time.UTC),
		LegacyID:     legacyID,
	}
}

func TestUpsertPatientsInsertThenUpdate(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	stats, err := s.UpsertPatients(ctx, []record.Patient{samplePatient(1)})
	if err != nil {
		t.Fatalf("UpsertPatients failed: %v", err)
	}
	if stats.Inserted != 1 || stats.Updated != 0 {
		t.Fatalf("first upsert stats = %+v", stats)
	}

	changed := samplePatient(1)
	changed.Email = "new.address@example.com"
	stats, err = s.UpsertPatients(ctx, []record.Patient{changed})
	if err != nil {
		t.Fatalf("second UpsertPatients failed: %v", err)
	}
	if stats.Inserted != 0 || stats.Updated != 1 {
		t.Fatalf("second upsert stats = %+v", stats)
	}

	table, err := s.ReadPatients(ctx)
	if err != nil {
		t.Fatalf("ReadPatients failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("patients = %d, want 1", table.Len())
	}
	if got, _ := table.Value(0, "email"); got != "new.address@example.com" {
		t.Fatalf("email = %q", got)
	}
	// Identifier and creation timestamp survive the update untouched.
	if got, _ := table.Value(0, "patient_uuid"); got != changed.PatientUUID {
		t.Fatalf("patient_uuid = %q", got)
	}
	if got, _ := table.Value(0, "created_at"); got != "2022-01-01T15:30:00Z" {
		t.Fatalf("created_at = %q", got)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	patients := []record.Patient{samplePatient(1), samplePatient(2)}
	if _, err := s.UpsertPatients(ctx, patients); err != nil {
		t.Fatalf("UpsertPatients failed: %v", err)
	}
	first, err := s.ReadPatients(ctx)
	if err != nil {
		t.Fatalf("ReadPatients failed: %v", err)
	}

	if _, err := s.UpsertPatients(ctx, patients); err != nil {
		t.Fatalf("re-run UpsertPatients failed: %v", err)
	}
	second, err := s.ReadPatients(ctx)
	if err != nil {
		t.Fatalf("ReadPatients failed: %v", err)
	}

	if second.Len() != first.Len() {
		t.Fatalf("re-run changed row count: %d -> %d", first.Len(), second.Len())
	}
	if first.CSV() != second.CSV() {
		t.Fatal("re-running the same upsert changed the persisted content")
	}
}

func TestUpsertEncountersAndInvoices(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	patientUUID := identity.Derive(identity.NamespacePatient, 1)
	enc := record.Encounter{
		EncounterUUID:   identity.Derive(identity.NamespaceEncounter, 10),
		PatientUUID:     patientUUID,
		EncounterTSUTC:  time.Date(2023, 3, 15, 13, 0, 0, 0, time.UTC),
		ProviderName:    "Dr. Smith",
		Location:        "Main Clinic",
		Status:          "scheduled",
		LegacyID:        10,
		PatientLegacyID: 1,
	}
	if _, err := s.UpsertEncounters(ctx, []record.Encounter{enc}); err != nil {
		t.Fatalf("UpsertEncounters failed: %v", err)
	}

	paid := time.Date(2023, 2, 1, 14, 30, 0, 0, time.UTC)
	invoices := []record.Invoice{
		{
			InvoiceUUID: identity.Derive(identity.NamespaceInvoice, 20),
			PatientUUID: patientUUID,
			TotalCents:  15075,
			Status:      "paid",
			IssuedUTC:   time.Date(2023, 1, 10, 17, 0, 0, 0, time.UTC),
			PaidUTC:     &paid,
		},
		{
			InvoiceUUID: identity.Derive(identity.NamespaceInvoice, 21),
			PatientUUID: patientUUID,
			TotalCents:  7550,
			Status:      "open",
			IssuedUTC:   time.Date(2023, 1, 11, 17, 0, 0, 0, time.UTC),
		},
	}
	if _, err := s.UpsertInvoices(ctx, invoices); err != nil {
		t.Fatalf("UpsertInvoices failed: %v", err)
	}

	table, err := s.ReadInvoices(ctx)
	if err != nil {
		t.Fatalf("ReadInvoices failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("invoices = %d, want 2", table.Len())
	}
	if got, _ := table.Value(0, "invoice_total_cents"); got != "15075" {
		t.Fatalf("cents = %q", got)
	}
	// Open invoice has NULL paid date.
	if _, ok := table.Value(1, "paid_date_utc"); ok {
		t.Fatal("open invoice should have NULL paid_date_utc")
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Patients != 0 || counts.Encounters != 1 || counts.Invoices != 2 {
		t.Fatalf("counts = %+v", counts)
	}
}

// Orphaned child rows must persist so reconciliation can report them.
func TestOrphanEncounterInsertable(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	enc := record.Encounter{
		EncounterUUID:  identity.Derive(identity.NamespaceEncounter, 99),
		PatientUUID:    identity.Derive(identity.NamespacePatient, 999),
		EncounterTSUTC: time.Date(2023, 3, 15, 13, 0, 0, 0, time.UTC),
		ProviderName:   "Dr. Smith",
		Location:       "Main Clinic",
		Status:         "scheduled",
	}
	if _, err := s.UpsertEncounters(ctx, []record.Encounter{enc}); err != nil {
		t.Fatalf("orphan encounter insert failed: %v", err)
	}
}

func TestEnsureIndexes(t *testing.T) {
	s := openStore(t)
	if err := s.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// Second call is a no-op.
	if err := s.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("repeat EnsureIndexes failed: %v", err)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.db")

	first, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.UpsertPatients(context.Background(), []record.Patient{samplePatient(1)}); err != nil {
		t.Fatalf("UpsertPatients failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	table, err := second.ReadPatients(context.Background())
	if err != nil {
		t.Fatalf("ReadPatients failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("patients after reopen = %d, want 1", table.Len())
	}
}
