package normalize

import (
	"errors"
	"strings"
)

// Sentinel errors classify why a field failed normalization. Callers match
// with errors.Is to decide whether a failure is a missing requirement, a
// parse failure, or a vocabulary miss.
var (
	ErrRequired        = errors.New("required value missing")
	ErrMalformed       = errors.New("malformed value")
	ErrOutOfVocabulary = errors.New("value outside vocabulary")
)

// IsBlank reports whether a raw cell should be treated as absent. Legacy
// exports encode missing data as empty strings, whitespace, or the literal
// token "nan" (any casing) left behind by earlier tooling.
func IsBlank(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true
	}
	return strings.EqualFold(trimmed, "nan")
}
