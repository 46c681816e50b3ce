package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// MoneyCents converts a required decimal amount in major currency units to
// integer cents. Parsing is done on the digits themselves rather than
// through float64 so that boundary amounts like "10.005" round exactly:
// sub-cent digits round half away from zero.
func MoneyCents(raw string) (int64, error) {
	if IsBlank(raw) {
		return 0, fmt.Errorf("%w: amount", ErrRequired)
	}
	value := trimmed(raw)

	negative := false
	switch {
	case strings.HasPrefix(value, "-"):
		negative = true
		value = value[1:]
	case strings.HasPrefix(value, "+"):
		value = value[1:]
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrMalformed, raw)
	}
	if whole == "" {
		whole = "0"
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrMalformed, raw)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrMalformed, raw)
	}
	cents := units * 100

	padded := frac + "00"
	cents += int64(padded[0]-'0')*10 + int64(padded[1]-'0')
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
