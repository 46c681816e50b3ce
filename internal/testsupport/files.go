package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medshift/internal/config"
)

// WriteCSV writes a CSV file from a header and rows, creating parent
// directories as needed. Rows are joined naively, so fixture values must not
// contain commas or quotes.
func WriteCSV(t testing.TB, path string, header string, rows ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	content := header + "\n"
	if len(rows) > 0 {
		content += strings.Join(rows, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// WriteSourceCSVs lays down the three source files for a run. Each slice of
// rows may be empty, producing a header-only file.
func WriteSourceCSVs(t testing.TB, cfg *config.Config, patients, appointments, invoices []string) {
	t.Helper()

	WriteCSV(t, cfg.SourcePatientsCSV(),
		"legacy_id,first_name,last_name,dob,phone,email,created_at", patients...)
	WriteCSV(t, cfg.SourceAppointmentsCSV(),
		"legacy_id,patient_id,appointment_date,provider_name,location,status", appointments...)
	WriteCSV(t, cfg.SourceInvoicesCSV(),
		"legacy_id,patient_id,amount_usd,status,issued_date,paid_date", invoices...)
}
