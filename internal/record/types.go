package record

import "time"

// Source table names as used in logs, failure exports, and the report.
const (
	TablePatients     = "patients"
	TableAppointments = "appointments"
	TableInvoices     = "invoices"
)

// Patient is a validated patient in the target schema.
type Patient struct {
	PatientUUID  string
	FirstName    string
	LastName     string
	DOB          time.Time
	PhoneE164    *string
	Email        string
	CreatedAtUTC time.Time
	LegacyID     int64
}

// Encounter is a validated appointment in the target schema.
type Encounter struct {
	EncounterUUID   string
	PatientUUID     string
	EncounterTSUTC  time.Time
	ProviderName    string
	Location        string
	Status          string
	LegacyID        int64
	PatientLegacyID int64
}

// Invoice is a validated billing invoice in the target schema.
type Invoice struct {
	InvoiceUUID     string
	PatientUUID     string
	TotalCents      int64
	Status          string
	IssuedUTC       time.Time
	PaidUTC         *time.Time
	LegacyID        int64
	PatientLegacyID int64
}

// Rejected captures one row that failed validation, for the failure export.
// ErrorMessage is a single line; multiple failing fields are comma-joined
// in Field. LegacyID holds the raw source value or "N/A" when absent.
type Rejected struct {
	RowIndex     int
	Table        string
	LegacyID     string
	Field        string
	ErrorMessage string
	SourceData   string
}

// LegacyIDSentinel marks a rejected row whose legacy id was itself missing.
const LegacyIDSentinel = "N/A"
