package normalize

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// PhonePolicy selects how a present-but-invalid phone number is handled.
type PhonePolicy string

const (
	// PhoneNullOnInvalid degrades an invalid number to null and keeps the
	// record. This is the default: legacy phone data is too dirty to let a
	// bad number sink an otherwise good patient row.
	PhoneNullOnInvalid PhonePolicy = "null"
	// PhoneRejectInvalid rejects the record instead.
	PhoneRejectInvalid PhonePolicy = "reject"
)

// Phone normalizes an optional phone number to E.164.
//
// A blank value is absent, never an error. A present value must parse as a
// valid (not merely possible) number in the region's numbering plan; the
// outcome for an invalid one depends on the policy. The returned degraded
// flag is set when PhoneNullOnInvalid nulled a present value so the caller
// can log the anomaly.
func Phone(raw, region string, policy PhonePolicy) (e164 *string, degraded bool, err error) {
	if IsBlank(raw) {
		return nil, false, nil
	}
	parsed, parseErr := phonenumbers.Parse(trimmed(raw), region)
	if parseErr == nil && phonenumbers.IsValidNumber(parsed) {
		formatted := phonenumbers.Format(parsed, phonenumbers.E164)
		return &formatted, false, nil
	}
	if policy == PhoneRejectInvalid {
		return nil, false, fmt.Errorf("%w: invalid phone number %q", ErrMalformed, raw)
	}
	return nil, true, nil
}
