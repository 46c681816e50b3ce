package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"medshift/internal/config"
	"medshift/internal/logging"
	"medshift/internal/report"
	"medshift/internal/testsupport"
)

func runPipeline(t *testing.T, cfg *config.Config) (*report.Report, error) {
	t.Helper()

	logger, err := logging.New(logging.Options{Level: "error", Format: "console", Writer: io.Discard})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return Run(context.Background(), cfg, logger)
}

// runPipelineLogged captures the console log output alongside the result.
func runPipelineLogged(t *testing.T, cfg *config.Config) (*report.Report, string, error) {
	t.Helper()

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	rep, runErr := Run(context.Background(), cfg, logger)
	return rep, buf.String(), runErr
}

func TestRunCleanMigration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{
			"1,Maria,Garcia,1985-03-12,(818) 555-0147,maria@example.com,2022-01-01 10:30",
			"2,James,Wilson,1990-07-22,818-555-0162,james@example.com,2022-02-15 14:45",
		},
		[]string{
			"10,1,2023-05-01 09:00,Dr. Chen,Main Clinic,SCHEDULED",
			"11,2,2023-05-02 13:30,Dr. Patel,North Clinic,COMPLETED",
		},
		[]string{
			"100,1,150.75,PAID,2023-06-01 12:00,2023-06-15 09:30",
			"101,2,49.25,OPEN,2023-06-03 08:00,",
		})

	rep, err := runPipeline(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Summary.OverallMigrationStatus != report.StatusPass {
		t.Errorf("status = %q, want PASS", rep.Summary.OverallMigrationStatus)
	}
	if rep.PatientsTargetRows != 2 || rep.AppointmentsTargetRows != 2 || rep.InvoicesTargetRows != 2 {
		t.Errorf("target rows = %d/%d/%d, want 2/2/2",
			rep.PatientsTargetRows, rep.AppointmentsTargetRows, rep.InvoicesTargetRows)
	}

	for _, name := range []string{"patients.csv", "encounters.csv", "billing_invoices.csv"} {
		if _, err := os.Stat(filepath.Join(cfg.TargetCSVDir(), name)); err != nil {
			t.Errorf("missing target export %s: %v", name, err)
		}
	}
	if _, err := os.Stat(cfg.DatabasePath()); err != nil {
		t.Errorf("missing database: %v", err)
	}

	persisted, err := report.ReadFile(cfg.ReportPath())
	if err != nil {
		t.Fatalf("read persisted report: %v", err)
	}
	if persisted.Summary.OverallMigrationStatus != report.StatusPass {
		t.Errorf("persisted status = %q, want PASS", persisted.Summary.OverallMigrationStatus)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{"1,Maria,Garcia,1985-03-12,8185550147,maria@example.com,2022-01-01 10:30"},
		[]string{"10,1,2023-05-01 09:00,Dr. Chen,Main Clinic,SCHEDULED"},
		[]string{"100,1,150.75,PAID,2023-06-01 12:00,2023-06-15 09:30"})

	first, err := runPipeline(t, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runPipeline(t, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.PatientsTargetRows != first.PatientsTargetRows ||
		second.AppointmentsTargetRows != first.AppointmentsTargetRows ||
		second.InvoicesTargetRows != first.InvoicesTargetRows {
		t.Errorf("re-run changed target rows: first %d/%d/%d, second %d/%d/%d",
			first.PatientsTargetRows, first.AppointmentsTargetRows, first.InvoicesTargetRows,
			second.PatientsTargetRows, second.AppointmentsTargetRows, second.InvoicesTargetRows)
	}
	if second.Summary.OverallMigrationStatus != report.StatusPass {
		t.Errorf("re-run status = %q, want PASS", second.Summary.OverallMigrationStatus)
	}
}

func TestRunExportsFailedRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{
			"1,Maria,Garcia,1985-03-12,8185550147,maria@example.com,2022-01-01 10:30",
			"2,James,Wilson,not-a-date,8185550162,james@example.com,2022-02-15 14:45",
		},
		nil,
		nil)

	rep, err := runPipeline(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One patient fails validation, so source and target counts diverge.
	if rep.Summary.OverallMigrationStatus != report.StatusReviewRequired {
		t.Errorf("status = %q, want REVIEW_REQUIRED", rep.Summary.OverallMigrationStatus)
	}
	if rep.PatientsSourceRows != 2 || rep.PatientsTargetRows != 1 {
		t.Errorf("patient rows = %d source, %d target; want 2/1",
			rep.PatientsSourceRows, rep.PatientsTargetRows)
	}

	entries, err := os.ReadDir(cfg.FailedDir())
	if err != nil {
		t.Fatalf("read failed dir: %v", err)
	}
	var failedFiles []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "failed_patients_") {
			failedFiles = append(failedFiles, entry.Name())
		}
	}
	if len(failedFiles) != 1 {
		t.Fatalf("failed exports = %v, want exactly one failed_patients file", failedFiles)
	}

	data, err := os.ReadFile(filepath.Join(cfg.FailedDir(), failedFiles[0]))
	if err != nil {
		t.Fatalf("read failure export: %v", err)
	}
	if !strings.Contains(string(data), "dob") {
		t.Error("failure export does not name the failing field")
	}

	// A re-run cleans old failure exports before writing new ones.
	if _, err := runPipeline(t, cfg); err != nil {
		t.Fatalf("second run: %v", err)
	}
	entries, err = os.ReadDir(cfg.FailedDir())
	if err != nil {
		t.Fatalf("read failed dir: %v", err)
	}
	count := 0
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".csv") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("failure exports after re-run = %d, want 1", count)
	}
}

func TestRunFlagsOrphanedRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{
			"1,Maria,Garcia,1985-03-12,8185550147,maria@example.com,2022-01-01 10:30",
			"2,James,Wilson,1990-07-22,8185550162,james@example.com,2022-02-15 14:45",
			"3,Aisha,Khan,1978-11-30,8185550171,aisha@example.com,2022-03-10 09:15",
		},
		[]string{
			"10,1,2023-05-01 09:00,Dr. Chen,Main Clinic,SCHEDULED",
			"11,999,2023-05-02 13:30,Dr. Patel,North Clinic,COMPLETED",
		},
		nil)

	rep, err := runPipeline(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.ReferentialIntegrity.OrphanedAppointmentsCount != 1 {
		t.Errorf("orphaned appointments = %d, want 1", rep.ReferentialIntegrity.OrphanedAppointmentsCount)
	}
	if rep.Summary.ReferentialIntegrityPassed {
		t.Error("referential integrity should fail with a 50% orphan rate")
	}
	if rep.Summary.OverallMigrationStatus != report.StatusReviewRequired {
		t.Errorf("status = %q, want REVIEW_REQUIRED", rep.Summary.OverallMigrationStatus)
	}
}

func TestRunMissingSourceFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// No source files written.

	_, err := runPipeline(t, cfg)
	if err == nil {
		t.Fatal("expected error for missing source data")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestRunLogsElapsedOnFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// No source files written, so the run fails during load.

	_, logs, err := runPipelineLogged(t, cfg)
	if err == nil {
		t.Fatal("expected error for missing source data")
	}
	if !strings.Contains(logs, "migration failed") {
		t.Errorf("logs missing failure record:\n%s", logs)
	}
	if !strings.Contains(logs, "elapsed=") {
		t.Errorf("failure record missing elapsed time:\n%s", logs)
	}
}

func TestRunLogsPersistedTotals(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{"1,Maria,Garcia,1985-03-12,8185550147,maria@example.com,2022-01-01 10:30"},
		[]string{"10,1,2023-05-01 09:00,Dr. Chen,Main Clinic,SCHEDULED"},
		[]string{"100,1,150.75,PAID,2023-06-01 12:00,2023-06-15 09:30"})

	_, logs, err := runPipelineLogged(t, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"patients_total=1", "encounters_total=1", "invoices_total=1"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSourceCSVs(t, cfg,
		[]string{"1,Maria,Garcia,1985-03-12,8185550147,maria@example.com,2022-01-01 10:30"},
		nil,
		nil)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("prepare directories: %v", err)
	}
	lock := flock.New(filepath.Join(cfg.Paths.TargetDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("prime lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	if _, err := runPipeline(t, cfg); !errors.Is(err, ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}
