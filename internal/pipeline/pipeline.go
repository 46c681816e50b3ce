package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"medshift/internal/config"
	"medshift/internal/csvio"
	"medshift/internal/dataset"
	"medshift/internal/normalize"
	"medshift/internal/record"
	"medshift/internal/report"
	"medshift/internal/store"
)

// lockFileName lives directly under the target directory so concurrent runs
// against the same target exclude each other regardless of source.
const lockFileName = "medshift.lock"

// Run executes one full migration: load the source CSVs, validate and
// transform every row, persist accepted records to the target CSVs and the
// SQLite export, write failure exports, reconcile source against target, and
// persist the report. Re-running against the same target is safe; records
// are upserted by their derived identifiers.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (rep *report.Report, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			logger.Error("migration failed",
				"elapsed", time.Since(start),
				"error", err)
		}
	}()
	logger.Info("starting migration",
		"source_dir", cfg.Paths.SourceDir,
		"target_dir", cfg.Paths.TargetDir)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, wrap(ErrConfiguration, "setup", "prepare directories", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.TargetDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, wrap(ErrStorage, "setup", "acquire run lock", err)
	}
	if !locked {
		return nil, wrap(ErrStorage, "setup", "another migration run holds the target directory lock", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}()

	if removed, err := csvio.CleanFailed(cfg.FailedDir()); err != nil {
		return nil, wrap(ErrStorage, "setup", "clean failure exports", err)
	} else if removed > 0 {
		logger.Info("cleaned up old failure exports", "removed", removed)
	}

	loadStart := time.Now()
	sourcePatients, err := csvio.LoadTable(cfg.SourcePatientsCSV())
	if err != nil {
		return nil, wrap(ErrValidation, "load", "patients", err)
	}
	sourceAppointments, err := csvio.LoadTable(cfg.SourceAppointmentsCSV())
	if err != nil {
		return nil, wrap(ErrValidation, "load", "appointments", err)
	}
	sourceInvoices, err := csvio.LoadTable(cfg.SourceInvoicesCSV())
	if err != nil {
		return nil, wrap(ErrValidation, "load", "invoices", err)
	}
	logger.Info("source data loaded",
		"patients", sourcePatients.Len(),
		"appointments", sourceAppointments.Len(),
		"invoices", sourceInvoices.Len(),
		"duration", time.Since(loadStart))

	validator, err := newValidator(cfg, logger)
	if err != nil {
		return nil, err
	}

	validateStart := time.Now()
	patients, rejectedPatients := validator.ValidatePatients(sourcePatients)
	encounters, rejectedEncounters := validator.ValidateEncounters(sourceAppointments)
	invoices, rejectedInvoices := validator.ValidateInvoices(sourceInvoices)
	logger.Info("validation complete",
		"patients_accepted", len(patients),
		"patients_rejected", len(rejectedPatients),
		"encounters_accepted", len(encounters),
		"encounters_rejected", len(rejectedEncounters),
		"invoices_accepted", len(invoices),
		"invoices_rejected", len(rejectedInvoices),
		"duration", time.Since(validateStart))

	if err := exportFailures(cfg, logger, rejectedPatients, rejectedEncounters, rejectedInvoices); err != nil {
		return nil, err
	}

	persistStart := time.Now()
	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "open database", err)
	}
	defer db.Close()

	patientStats, err := db.UpsertPatients(ctx, patients)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "upsert patients", err)
	}
	encounterStats, err := db.UpsertEncounters(ctx, encounters)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "upsert encounters", err)
	}
	invoiceStats, err := db.UpsertInvoices(ctx, invoices)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "upsert invoices", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, wrap(ErrStorage, "persist", "create indexes", err)
	}
	logger.Info("target database updated",
		"patients_inserted", patientStats.Inserted, "patients_updated", patientStats.Updated,
		"encounters_inserted", encounterStats.Inserted, "encounters_updated", encounterStats.Updated,
		"invoices_inserted", invoiceStats.Inserted, "invoices_updated", invoiceStats.Updated,
		"duration", time.Since(persistStart))

	// The target tables are read back from the database rather than built
	// from the in-memory records, so the reconciliation verifies what was
	// actually persisted.
	targetPatients, err := db.ReadPatients(ctx)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "read back patients", err)
	}
	targetEncounters, err := db.ReadEncounters(ctx)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "read back encounters", err)
	}
	targetInvoices, err := db.ReadInvoices(ctx)
	if err != nil {
		return nil, wrap(ErrStorage, "persist", "read back invoices", err)
	}

	for _, export := range []struct {
		name  string
		table *dataset.Table
	}{
		{"patients.csv", targetPatients},
		{"encounters.csv", targetEncounters},
		{"billing_invoices.csv", targetInvoices},
	} {
		path := filepath.Join(cfg.TargetCSVDir(), export.name)
		if err := csvio.WriteTable(path, export.table); err != nil {
			return nil, wrap(ErrStorage, "persist", "write "+export.name, err)
		}
	}

	reconcileStart := time.Now()
	rep = report.Build(report.Inputs{
		SourcePatients:     sourcePatients,
		SourceAppointments: sourceAppointments,
		SourceInvoices:     sourceInvoices,
		TargetPatients:     targetPatients,
		TargetEncounters:   targetEncounters,
		TargetInvoices:     targetInvoices,
	})
	if err := report.WriteFile(cfg.ReportPath(), rep); err != nil {
		return nil, wrap(ErrReconcile, "reconcile", "write report", err)
	}
	logger.Info("reconciliation complete",
		"status", rep.Summary.OverallMigrationStatus,
		"report", cfg.ReportPath(),
		"duration", time.Since(reconcileStart))

	totals, err := db.Counts(ctx)
	if err != nil {
		return nil, wrap(ErrStorage, "reconcile", "count persisted rows", err)
	}
	logger.Info("migration finished",
		"status", rep.Summary.OverallMigrationStatus,
		"patients_total", totals.Patients,
		"encounters_total", totals.Encounters,
		"invoices_total", totals.Invoices,
		"elapsed", time.Since(start))
	return rep, nil
}

func newValidator(cfg *config.Config, logger *slog.Logger) (*record.Validator, error) {
	loc, err := cfg.SourceLocation()
	if err != nil {
		return nil, wrap(ErrConfiguration, "setup", "source timezone", err)
	}
	return record.NewValidator(record.Options{
		SourceLocation: loc,
		PhoneRegion:    cfg.Migration.PhoneRegion,
		PhonePolicy:    normalize.PhonePolicy(cfg.Migration.PhonePolicy),
		StatusPolicy:   normalize.StatusPolicy(cfg.Migration.StatusPolicy),
		Logger:         logger,
	}), nil
}

// exportFailures writes one timestamped failure file per table with rejects.
// The export names follow the target schema table names.
func exportFailures(cfg *config.Config, logger *slog.Logger, patients, encounters, invoices []record.Rejected) error {
	now := time.Now()
	for _, export := range []struct {
		name string
		rows []record.Rejected
	}{
		{"patients", patients},
		{"encounters", encounters},
		{"billing_invoices", invoices},
	} {
		path, err := csvio.WriteRejected(cfg.FailedDir(), export.name, export.rows, now)
		if err != nil {
			return wrap(ErrStorage, "export", "failed "+export.name, err)
		}
		if path != "" {
			logger.Info("exported failed records",
				"table", export.name, "count", len(export.rows), "file", path)
		}
	}
	return nil
}
