package record

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"medshift/internal/dataset"
	"medshift/internal/identity"
	"medshift/internal/normalize"
)

// Options configures a Validator.
type Options struct {
	// SourceLocation is the civil timezone all source wall-clock
	// timestamps are interpreted in before conversion to UTC.
	SourceLocation *time.Location
	// PhoneRegion is the numbering-plan region for phone parsing.
	PhoneRegion  string
	PhonePolicy  normalize.PhonePolicy
	StatusPolicy normalize.StatusPolicy
	Logger       *slog.Logger
}

// Validator applies the per-field normalizers to whole rows.
type Validator struct {
	loc          *time.Location
	region       string
	phonePolicy  normalize.PhonePolicy
	statusPolicy normalize.StatusPolicy
	logger       *slog.Logger
}

// NewValidator builds a Validator, defaulting any unset option.
func NewValidator(opts Options) *Validator {
	loc := opts.SourceLocation
	if loc == nil {
		loc = time.UTC
	}
	region := opts.PhoneRegion
	if region == "" {
		region = "US"
	}
	phonePolicy := opts.PhonePolicy
	if phonePolicy == "" {
		phonePolicy = normalize.PhoneNullOnInvalid
	}
	statusPolicy := opts.StatusPolicy
	if statusPolicy == "" {
		statusPolicy = normalize.StatusRejectUnknown
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		loc:          loc,
		region:       region,
		phonePolicy:  phonePolicy,
		statusPolicy: statusPolicy,
		logger:       logger,
	}
}

// fieldFailure records one failing field of a row.
type fieldFailure struct {
	field string
	err   error
}

// rowScope accumulates failures for a single row and produces the Rejected
// entry when any required field failed.
type rowScope struct {
	table    string
	row      int
	source   *dataset.Table
	failures []fieldFailure
}

func (r *rowScope) fail(field string, err error) {
	r.failures = append(r.failures, fieldFailure{field: field, err: err})
}

func (r *rowScope) ok() bool {
	return len(r.failures) == 0
}

func (r *rowScope) rejected() Rejected {
	fields := make([]string, 0, len(r.failures))
	messages := make([]string, 0, len(r.failures))
	for _, f := range r.failures {
		fields = append(fields, f.field)
		messages = append(messages, fmt.Sprintf("%s: %s", f.field, f.err))
	}
	legacyID := LegacyIDSentinel
	if value, ok := r.source.Value(r.row, "legacy_id"); ok {
		legacyID = value
	}
	message := strings.Join(messages, " | ")
	message = strings.ReplaceAll(message, "\n", " | ")
	return Rejected{
		RowIndex:     r.row,
		Table:        r.table,
		LegacyID:     legacyID,
		Field:        strings.Join(fields, ", "),
		ErrorMessage: message,
		SourceData:   r.source.RowSnapshot(r.row),
	}
}

// legacyID parses a required integer key column. Returns ok=false after
// recording the failure.
func (r *rowScope) legacyID(column string) (int64, bool) {
	raw, present := r.source.Value(r.row, column)
	if !present {
		r.fail(column, fmt.Errorf("%w: %s", normalize.ErrRequired, column))
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		r.fail(column, fmt.Errorf("%w: %s %q is not an integer", normalize.ErrMalformed, column, raw))
		return 0, false
	}
	return id, true
}

// requiredText returns a trimmed non-blank string column value.
func (r *rowScope) requiredText(column string) string {
	raw, present := r.source.Value(r.row, column)
	if !present {
		r.fail(column, fmt.Errorf("%w: %s", normalize.ErrRequired, column))
		return ""
	}
	return strings.TrimSpace(raw)
}

func (r *rowScope) cell(column string) string {
	raw, _ := r.source.Value(r.row, column)
	return raw
}

func (v *Validator) logRejection(rej Rejected) {
	v.logger.Warn("validation failed",
		"table", rej.Table,
		"row", rej.RowIndex,
		"legacy_id", rej.LegacyID,
		"fields", rej.Field,
		"error", rej.ErrorMessage,
	)
}

// ValidatePatients validates every patient row in input order. Accepted and
// rejected outputs each preserve that order independently.
func (v *Validator) ValidatePatients(rows *dataset.Table) ([]Patient, []Rejected) {
	accepted := make([]Patient, 0, rows.Len())
	var rejected []Rejected

	for i := 0; i < rows.Len(); i++ {
		scope := &rowScope{table: TablePatients, row: i, source: rows}

		var patient Patient
		// Identifier derivation comes first; the remaining fields are
		// validated regardless so a rejection names every failing field.
		if legacyID, ok := scope.legacyID("legacy_id"); ok {
			patient.LegacyID = legacyID
			patient.PatientUUID = identity.Derive(identity.NamespacePatient, legacyID)
		}

		patient.FirstName = scope.requiredText("first_name")
		patient.LastName = scope.requiredText("last_name")

		if dob, err := normalize.Date(scope.cell("dob")); err != nil {
			scope.fail("dob", err)
		} else {
			patient.DOB = dob
		}

		phone, degraded, err := normalize.Phone(scope.cell("phone"), v.region, v.phonePolicy)
		if err != nil {
			scope.fail("phone", err)
		} else {
			patient.PhoneE164 = phone
			if degraded {
				v.logger.Warn("invalid phone number, setting to NULL",
					"table", TablePatients, "row", i, "phone", scope.cell("phone"))
			}
		}

		if email, err := normalize.Email(scope.cell("email")); err != nil {
			scope.fail("email", err)
		} else {
			patient.Email = email
		}

		if created, err := normalize.LocalDateTime(scope.cell("created_at"), v.loc); err != nil {
			scope.fail("created_at", err)
		} else {
			patient.CreatedAtUTC = created
		}

		if scope.ok() {
			accepted = append(accepted, patient)
			continue
		}
		rej := scope.rejected()
		v.logRejection(rej)
		rejected = append(rejected, rej)
	}
	return accepted, rejected
}

// ValidateEncounters validates every appointment row in input order.
func (v *Validator) ValidateEncounters(rows *dataset.Table) ([]Encounter, []Rejected) {
	accepted := make([]Encounter, 0, rows.Len())
	var rejected []Rejected

	for i := 0; i < rows.Len(); i++ {
		scope := &rowScope{table: TableAppointments, row: i, source: rows}

		var enc Encounter
		if legacyID, ok := scope.legacyID("legacy_id"); ok {
			enc.LegacyID = legacyID
			enc.EncounterUUID = identity.Derive(identity.NamespaceEncounter, legacyID)
		}
		if patientID, ok := scope.legacyID("patient_id"); ok {
			enc.PatientLegacyID = patientID
			enc.PatientUUID = identity.Derive(identity.NamespacePatient, patientID)
		}

		if ts, err := normalize.LocalDateTime(scope.cell("appointment_date"), v.loc); err != nil {
			scope.fail("appointment_date", err)
		} else {
			enc.EncounterTSUTC = ts
		}

		enc.ProviderName = scope.requiredText("provider_name")
		enc.Location = scope.requiredText("location")

		if status, err := normalize.Status(scope.cell("status"), normalize.EncounterStatuses, v.statusPolicy); err != nil {
			scope.fail("status", err)
		} else {
			enc.Status = status
		}

		if scope.ok() {
			accepted = append(accepted, enc)
			continue
		}
		rej := scope.rejected()
		v.logRejection(rej)
		rejected = append(rejected, rej)
	}
	return accepted, rejected
}

// ValidateInvoices validates every invoice row in input order.
func (v *Validator) ValidateInvoices(rows *dataset.Table) ([]Invoice, []Rejected) {
	accepted := make([]Invoice, 0, rows.Len())
	var rejected []Rejected

	for i := 0; i < rows.Len(); i++ {
		scope := &rowScope{table: TableInvoices, row: i, source: rows}

		var inv Invoice
		if legacyID, ok := scope.legacyID("legacy_id"); ok {
			inv.LegacyID = legacyID
			inv.InvoiceUUID = identity.Derive(identity.NamespaceInvoice, legacyID)
		}
		if patientID, ok := scope.legacyID("patient_id"); ok {
			inv.PatientLegacyID = patientID
			inv.PatientUUID = identity.Derive(identity.NamespacePatient, patientID)
		}

		if cents, err := normalize.MoneyCents(scope.cell("amount_usd")); err != nil {
			scope.fail("amount_usd", err)
		} else {
			inv.TotalCents = cents
		}

		if status, err := normalize.Status(scope.cell("status"), normalize.InvoiceStatuses, v.statusPolicy); err != nil {
			scope.fail("status", err)
		} else {
			inv.Status = status
		}

		if issued, err := normalize.LocalDateTime(scope.cell("issued_date"), v.loc); err != nil {
			scope.fail("issued_date", err)
		} else {
			inv.IssuedUTC = issued
		}

		if paid, err := normalize.OptionalLocalDateTime(scope.cell("paid_date"), v.loc); err != nil {
			scope.fail("paid_date", err)
		} else {
			inv.PaidUTC = paid
		}

		if scope.ok() {
			accepted = append(accepted, inv)
			continue
		}
		rej := scope.rejected()
		v.logRejection(rej)
		rejected = append(rejected, rej)
	}
	return accepted, rejected
}
