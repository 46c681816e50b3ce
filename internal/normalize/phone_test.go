package normalize_test

import (
	"errors"
	"testing"

	"medshift/internal/normalize"
)

// Every accepted surface format of the same ten-digit US number normalizes
// to one E.164 string.
func TestPhoneSurfaceFormats(t *testing.T) {
	for _, raw := range []string{
		"(818) 555-1234",
		"818-555-1234",
		"818.555.1234",
		"8185551234",
		"+1 818 555 1234",
	} {
		e164, degraded, err := normalize.Phone(raw, "US", normalize.PhoneNullOnInvalid)
		if err != nil {
			t.Errorf("Phone(%q) failed: %v", raw, err)
			continue
		}
		if degraded {
			t.Errorf("Phone(%q) unexpectedly degraded", raw)
		}
		if e164 == nil || *e164 != "+18185551234" {
			t.Errorf("Phone(%q) = %v, want +18185551234", raw, e164)
		}
	}
}

func TestPhoneBlankIsAbsent(t *testing.T) {
	for _, raw := range []string{"", "   ", "nan"} {
		e164, degraded, err := normalize.Phone(raw, "US", normalize.PhoneNullOnInvalid)
		if err != nil || degraded || e164 != nil {
			t.Errorf("Phone(%q) = (%v, %v, %v), want absent", raw, e164, degraded, err)
		}
	}
}

func TestPhoneInvalidDegradesToNull(t *testing.T) {
	for _, raw := range []string{"invalid", "123", "999-999-99999999"} {
		e164, degraded, err := normalize.Phone(raw, "US", normalize.PhoneNullOnInvalid)
		if err != nil {
			t.Errorf("Phone(%q) failed under null policy: %v", raw, err)
			continue
		}
		if e164 != nil {
			t.Errorf("Phone(%q) = %q, want null", raw, *e164)
		}
		if !degraded {
			t.Errorf("Phone(%q) should report degradation", raw)
		}
	}
}

// The alternate policy turns the same inputs into record-level rejections.
func TestPhoneInvalidRejectPolicy(t *testing.T) {
	if _, _, err := normalize.Phone("invalid", "US", normalize.PhoneRejectInvalid); !errors.Is(err, normalize.ErrMalformed) {
		t.Fatalf("invalid phone under reject policy: got %v, want ErrMalformed", err)
	}
	// Blank stays absent even under the strict policy.
	if e164, _, err := normalize.Phone("", "US", normalize.PhoneRejectInvalid); err != nil || e164 != nil {
		t.Fatalf("blank phone under reject policy: got (%v, %v), want absent", e164, err)
	}
}
