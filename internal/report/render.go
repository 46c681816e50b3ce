package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"medshift/internal/reconcile"
)

var counts = message.NewPrinter(language.English)

// Render writes the multi-section human-readable summary of a report.
// Purely presentational: every number comes from the report as built.
// rounded selects the rounded table style for interactive terminals.
func Render(w io.Writer, rep *Report, rounded bool) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "MIGRATION RECONCILIATION REPORT")
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nROW COUNTS")
	fmt.Fprintln(w, renderRowCounts(rep, rounded))

	fmt.Fprintln(w, "\nREFERENTIAL INTEGRITY")
	ri := rep.ReferentialIntegrity
	fmt.Fprintf(w, "  Appointments reference patients: %.1f%% (%s)\n",
		ri.AppointmentsReferencePercentage, passOrReview(ri.AppointmentsReferencePatients))
	fmt.Fprintf(w, "  Invoices reference patients:     %.1f%% (%s)\n",
		ri.InvoicesReferencePercentage, passOrReview(ri.InvoicesReferencePatients))
	fmt.Fprintf(w, "  Orphaned records overall:        %.1f%% (%s)\n",
		ri.OrphanPercentage, passOrReview(ri.AcceptableOrphanLevel))
	fmt.Fprintf(w, "  Total orphaned records:          %s\n", counts.Sprintf("%d", ri.TotalOrphanedRecords))
	fmt.Fprintf(w, "  Max appointments per patient:    %s (%s)\n",
		counts.Sprintf("%d", ri.MaxAppointmentsPerPatient), passOrReview(ri.ReasonableAppointmentDistribution))

	fmt.Fprintln(w, "\nDATA QUALITY")
	fmt.Fprintln(w, renderQuality(rep, rounded))

	fmt.Fprintln(w, "\nSUMMARY")
	fmt.Fprintf(w, "  Row counts:            %s\n", passOrFail(rep.Summary.RowCountsPassed))
	fmt.Fprintf(w, "  Referential integrity: %s\n", passOrFail(rep.Summary.ReferentialIntegrityPassed))
	fmt.Fprintf(w, "  Data quality:          %s\n", passOrFail(rep.Summary.DataQualityPassed))
	fmt.Fprintf(w, "\nMIGRATION STATUS: %s\n", rep.Summary.OverallMigrationStatus)
	if rep.Summary.OverallMigrationStatus == StatusPass {
		fmt.Fprintln(w, "  All validations passed. Migration is ready for production.")
	} else {
		fmt.Fprintln(w, "  Some validations failed. Review required before production deployment.")
	}

	fmt.Fprintln(w, "\nCHECKSUMS (informational only)")
	fmt.Fprintf(w, "  Source: %s...\n", truncate(rep.SHA256ChecksumSource, 16))
	fmt.Fprintf(w, "  Target: %s...\n", truncate(rep.SHA256ChecksumTarget, 16))
	fmt.Fprintf(w, "  Note: %s\n", rep.ChecksumNote)
	fmt.Fprintln(w, rule)
}

// RenderFile re-reads a persisted report and renders it.
func RenderFile(w io.Writer, path string, rounded bool) error {
	rep, err := ReadFile(path)
	if err != nil {
		return err
	}
	Render(w, rep, rounded)
	return nil
}

func renderRowCounts(rep *Report, rounded bool) string {
	tw := newTable(rounded)
	tw.AppendHeader(table.Row{"Table", "Source", "Target", "Match"})
	tw.AppendRow(table.Row{"Patients",
		counts.Sprintf("%d", rep.PatientsSourceRows),
		counts.Sprintf("%d", rep.PatientsTargetRows),
		yesNo(rep.PatientsSourceRows == rep.PatientsTargetRows)})
	tw.AppendRow(table.Row{"Appointments",
		counts.Sprintf("%d", rep.AppointmentsSourceRows),
		counts.Sprintf("%d", rep.AppointmentsTargetRows),
		yesNo(rep.AppointmentsSourceRows == rep.AppointmentsTargetRows)})
	tw.AppendRow(table.Row{"Invoices",
		counts.Sprintf("%d", rep.InvoicesSourceRows),
		counts.Sprintf("%d", rep.InvoicesTargetRows),
		yesNo(rep.InvoicesSourceRows == rep.InvoicesTargetRows)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderQuality(rep *Report, rounded bool) string {
	tw := newTable(rounded)
	tw.AppendHeader(table.Row{"Table", "Null Consistency", "Numeric Consistency"})
	for _, entry := range []struct {
		name    string
		quality reconcile.Quality
	}{
		{"Patients", rep.DataQuality.Patients},
		{"Appointments", rep.DataQuality.Appointments},
		{"Invoices", rep.DataQuality.Invoices},
	} {
		tw.AppendRow(table.Row{
			entry.name,
			fmt.Sprintf("%.1f%% (%s)", entry.quality.NullConsistencyPercentage, passOrReview(entry.quality.NullConsistencyPassed)),
			fmt.Sprintf("%.1f%% (%s)", entry.quality.NumericConsistencyPercentage, passOrReview(entry.quality.NumericConsistencyPassed)),
		})
	}
	return tw.Render()
}

func newTable(rounded bool) table.Writer {
	tw := table.NewWriter()
	if rounded {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	return tw
}

func passOrReview(ok bool) string {
	if ok {
		return "PASS"
	}
	return "REVIEW"
}

func passOrFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func yesNo(ok bool) string {
	if ok {
		return "YES"
	}
	return "NO"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
