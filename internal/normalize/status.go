package normalize

import (
	"fmt"
	"strings"
)

// StatusPolicy selects how an out-of-vocabulary status value is handled.
type StatusPolicy string

const (
	// StatusRejectUnknown rejects records whose status is not in the
	// vocabulary. This is the default: an unmapped status in billing or
	// scheduling data is an auditing problem, not a formatting one.
	StatusRejectUnknown StatusPolicy = "reject"
	// StatusCoerceUnknown passes unknown values through lower-cased.
	StatusCoerceUnknown StatusPolicy = "coerce"
)

// Vocabularies for the two status-bearing entities. Keys are the upper-case
// legacy tokens, values the canonical target terms.
var (
	EncounterStatuses = map[string]string{
		"SCHEDULED": "scheduled",
		"CANCELLED": "cancelled",
		"COMPLETED": "completed",
	}
	InvoiceStatuses = map[string]string{
		"OPEN": "open",
		"PAID": "paid",
	}
)

// Status maps a required status token through a fixed vocabulary,
// case-insensitively. Unknown values are rejected or coerced per policy.
func Status(raw string, vocab map[string]string, policy StatusPolicy) (string, error) {
	if IsBlank(raw) {
		return "", fmt.Errorf("%w: status", ErrRequired)
	}
	token := trimmed(raw)
	if mapped, ok := vocab[strings.ToUpper(token)]; ok {
		return mapped, nil
	}
	if policy == StatusCoerceUnknown {
		return strings.ToLower(token), nil
	}
	return "", fmt.Errorf("%w: status %q", ErrOutOfVocabulary, raw)
}
