package normalize

import (
	"fmt"
	"strings"
)

// Email trims and lower-cases a required email address, rejecting values
// that do not fit the local@domain.tld shape: exactly one "@", non-empty
// local and domain parts, at least one dot inside the domain, no spaces.
func Email(raw string) (string, error) {
	if IsBlank(raw) {
		return "", fmt.Errorf("%w: email", ErrRequired)
	}
	address := strings.ToLower(trimmed(raw))
	if strings.ContainsAny(address, " \t") {
		return "", fmt.Errorf("%w: email %q contains whitespace", ErrMalformed, raw)
	}
	local, domain, found := strings.Cut(address, "@")
	if !found || strings.Contains(domain, "@") {
		return "", fmt.Errorf("%w: email %q must contain exactly one @", ErrMalformed, raw)
	}
	if local == "" || domain == "" {
		return "", fmt.Errorf("%w: email %q has an empty part", ErrMalformed, raw)
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", fmt.Errorf("%w: email %q has no domain suffix", ErrMalformed, raw)
	}
	return address, nil
}

func trimmed(raw string) string {
	return strings.TrimSpace(raw)
}
