package reconcile

import (
	"math"

	"medshift/internal/dataset"
	"medshift/internal/record"
)

// Pass thresholds for the per-table quality checks.
const (
	nullDifferenceLimit     = 5
	nullPassThresholdPct    = 90.0
	numericTolerancePct     = 5.0
	conversionTolerancePct  = 1.0
	numericPassThresholdPct = 85.0
)

// moneyConversionField is the one mapped field whose unit changes during
// migration; its mean check verifies dollars→cents conversion accuracy
// instead of raw relative difference.
const moneyConversionField = "amount_usd -> invoice_total_cents"

// columnMapping ties a source column to its target counterpart. Legacy and
// identifier columns carry no mapping and are excluded from quality checks.
type columnMapping struct {
	source  string
	target  string
	numeric bool
}

var tableMappings = map[string][]columnMapping{
	record.TablePatients: {
		{source: "first_name", target: "first_name"},
		{source: "last_name", target: "last_name"},
		{source: "dob", target: "dob"},
		{source: "phone", target: "phone_e164"},
		{source: "email", target: "email"},
		{source: "created_at", target: "created_at"},
	},
	record.TableAppointments: {
		{source: "appointment_date", target: "encounter_ts_utc"},
		{source: "provider_name", target: "provider_name"},
		{source: "location", target: "location"},
		{source: "status", target: "status"},
	},
	record.TableInvoices: {
		{source: "amount_usd", target: "invoice_total_cents", numeric: true},
		{source: "status", target: "status"},
		{source: "issued_date", target: "issued_date_utc"},
		{source: "paid_date", target: "paid_date_utc"},
	},
}

// NullCheck compares absent-value counts for one mapped field.
type NullCheck struct {
	SourceNulls int  `json:"source_nulls"`
	TargetNulls int  `json:"target_nulls"`
	Difference  int  `json:"difference"`
	Acceptable  bool `json:"acceptable"`
}

// NumericCheck compares means for one mapped numeric field.
type NumericCheck struct {
	SourceMean           float64 `json:"source_mean"`
	TargetMean           float64 `json:"target_mean"`
	PercentageDifference float64 `json:"percentage_difference"`
	Consistent           bool    `json:"consistent"`
}

// Quality holds the per-table data-quality metrics.
type Quality struct {
	NullValueAnalysis            map[string]NullCheck    `json:"null_value_analysis"`
	NullConsistencyPercentage    float64                 `json:"null_consistency_percentage"`
	NullConsistencyPassed        bool                    `json:"null_consistency_passed"`
	NumericDistributionAnalysis  map[string]NumericCheck `json:"numeric_distribution_analysis"`
	NumericConsistencyPercentage float64                 `json:"numeric_consistency_percentage"`
	NumericConsistencyPassed     bool                    `json:"numeric_consistency_passed"`
}

// Passed reports whether both quality sub-checks passed.
func (q Quality) Passed() bool {
	return q.NullConsistencyPassed && q.NumericConsistencyPassed
}

// CheckQuality computes null-consistency and numeric-distribution metrics
// between one source table and its migrated target counterpart.
func CheckQuality(source, target *dataset.Table, tableName string) Quality {
	quality := Quality{
		NullValueAnalysis:           make(map[string]NullCheck),
		NumericDistributionAnalysis: make(map[string]NumericCheck),
	}

	for _, mapping := range tableMappings[tableName] {
		if !source.HasColumn(mapping.source) || !target.HasColumn(mapping.target) {
			continue
		}
		sourceNulls := source.NullCount(mapping.source)
		targetNulls := target.NullCount(mapping.target)
		diff := sourceNulls - targetNulls
		if diff < 0 {
			diff = -diff
		}
		quality.NullValueAnalysis[displayName(mapping)] = NullCheck{
			SourceNulls: sourceNulls,
			TargetNulls: targetNulls,
			Difference:  diff,
			Acceptable:  diff <= nullDifferenceLimit,
		}
	}

	nullPassed := 0
	for _, check := range quality.NullValueAnalysis {
		if check.Acceptable {
			nullPassed++
		}
	}
	if total := len(quality.NullValueAnalysis); total > 0 {
		quality.NullConsistencyPercentage = round1(float64(nullPassed) / float64(total) * 100)
	} else {
		quality.NullConsistencyPercentage = 100.0
	}
	quality.NullConsistencyPassed = quality.NullConsistencyPercentage >= nullPassThresholdPct

	for _, mapping := range tableMappings[tableName] {
		if !mapping.numeric || !source.HasColumn(mapping.source) || !target.HasColumn(mapping.target) {
			continue
		}
		if source.Len() == 0 || target.Len() == 0 {
			continue
		}
		quality.NumericDistributionAnalysis[displayName(mapping)] = checkMeans(source, target, mapping)
	}

	numericPassed := 0
	for _, check := range quality.NumericDistributionAnalysis {
		if check.Consistent {
			numericPassed++
		}
	}
	if total := len(quality.NumericDistributionAnalysis); total > 0 {
		quality.NumericConsistencyPercentage = round1(float64(numericPassed) / float64(total) * 100)
	} else {
		quality.NumericConsistencyPercentage = 100.0
	}
	quality.NumericConsistencyPassed = quality.NumericConsistencyPercentage >= numericPassThresholdPct

	return quality
}

func checkMeans(source, target *dataset.Table, mapping columnMapping) NumericCheck {
	sourceMean, _ := source.Mean(mapping.source)
	targetMean, _ := target.Mean(mapping.target)

	check := NumericCheck{SourceMean: sourceMean, TargetMean: targetMean}
	if sourceMean == 0 {
		check.PercentageDifference = 0
		check.Consistent = targetMean == 0
		return check
	}

	if displayName(mapping) == moneyConversionField {
		// Dollars became cents, so the target mean should sit within 1%
		// of source_mean x 100; report conversion accuracy, not raw
		// relative difference.
		expected := sourceMean * 100
		accuracy := math.Abs(targetMean-expected) / expected * 100
		check.PercentageDifference = accuracy
		check.Consistent = accuracy < conversionTolerancePct
		return check
	}

	diff := math.Abs(sourceMean-targetMean) / math.Abs(sourceMean) * 100
	check.PercentageDifference = diff
	check.Consistent = diff < numericTolerancePct
	return check
}

func displayName(mapping columnMapping) string {
	if mapping.source == mapping.target {
		return mapping.source
	}
	return mapping.source + " -> " + mapping.target
}
