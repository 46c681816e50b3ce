package reconcile

import (
	"math"

	"medshift/internal/dataset"
)

// Pass thresholds for the referential-integrity checks.
const (
	referenceThresholdPct = 95.0
	orphanThresholdPct    = 5.0
	maxAppointmentsLimit  = 100
)

// Integrity holds the cross-table relationship metrics over the target
// data. Field names follow the persisted report schema.
type Integrity struct {
	AppointmentsReferencePercentage   float64 `json:"appointments_reference_percentage"`
	AppointmentsReferencePatients     bool    `json:"appointments_reference_patients"`
	InvoicesReferencePercentage       float64 `json:"invoices_reference_percentage"`
	InvoicesReferencePatients         bool    `json:"invoices_reference_patients"`
	OrphanedAppointmentsCount         int     `json:"orphaned_appointments_count"`
	OrphanedInvoicesCount             int     `json:"orphaned_invoices_count"`
	TotalOrphanedRecords              int     `json:"total_orphaned_records"`
	OrphanPercentage                  float64 `json:"orphan_percentage"`
	AcceptableOrphanLevel             bool    `json:"acceptable_orphan_level"`
	MaxAppointmentsPerPatient         int     `json:"max_appointments_per_patient"`
	ReasonableAppointmentDistribution bool    `json:"reasonable_appointment_distribution"`
}

// Passed reports whether every referential-integrity sub-check passed.
func (i Integrity) Passed() bool {
	return i.AppointmentsReferencePatients &&
		i.InvoicesReferencePatients &&
		i.AcceptableOrphanLevel &&
		i.ReasonableAppointmentDistribution
}

// CheckIntegrity computes the referential-integrity block over the target
// patients, appointments, and invoices tables. Empty child tables pass
// vacuously at 100%.
func CheckIntegrity(patients, appointments, invoices *dataset.Table) Integrity {
	known := patients.ValueSet("patient_uuid")

	result := Integrity{}

	validAppointments := countReferencing(appointments, known)
	if appointments.Len() > 0 {
		result.AppointmentsReferencePercentage = round1(float64(validAppointments) / float64(appointments.Len()) * 100)
		result.AppointmentsReferencePatients = result.AppointmentsReferencePercentage >= referenceThresholdPct
	} else {
		result.AppointmentsReferencePercentage = 100.0
		result.AppointmentsReferencePatients = true
	}

	validInvoices := countReferencing(invoices, known)
	if invoices.Len() > 0 {
		result.InvoicesReferencePercentage = round1(float64(validInvoices) / float64(invoices.Len()) * 100)
		result.InvoicesReferencePatients = result.InvoicesReferencePercentage >= referenceThresholdPct
	} else {
		result.InvoicesReferencePercentage = 100.0
		result.InvoicesReferencePatients = true
	}

	result.OrphanedAppointmentsCount = appointments.Len() - validAppointments
	result.OrphanedInvoicesCount = invoices.Len() - validInvoices
	result.TotalOrphanedRecords = result.OrphanedAppointmentsCount + result.OrphanedInvoicesCount

	totalChildren := appointments.Len() + invoices.Len()
	if totalChildren > 0 {
		result.OrphanPercentage = round1(float64(result.TotalOrphanedRecords) / float64(totalChildren) * 100)
		result.AcceptableOrphanLevel = result.OrphanPercentage <= orphanThresholdPct
	} else {
		result.OrphanPercentage = 0.0
		result.AcceptableOrphanLevel = true
	}

	result.MaxAppointmentsPerPatient = maxPerPatient(appointments)
	result.ReasonableAppointmentDistribution = result.MaxAppointmentsPerPatient <= maxAppointmentsLimit

	return result
}

// countReferencing counts child rows whose patient_uuid resolves in the
// known patient set. A NULL reference never resolves.
func countReferencing(children *dataset.Table, known map[string]struct{}) int {
	count := 0
	for row := 0; row < children.Len(); row++ {
		value, ok := children.Value(row, "patient_uuid")
		if !ok {
			continue
		}
		if _, found := known[value]; found {
			count++
		}
	}
	return count
}

func maxPerPatient(appointments *dataset.Table) int {
	counts := make(map[string]int)
	for row := 0; row < appointments.Len(); row++ {
		if value, ok := appointments.Value(row, "patient_uuid"); ok {
			counts[value]++
		}
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return max
}

// round1 rounds to one decimal place with ties going away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
