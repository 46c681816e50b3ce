package normalize

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// Date parses a required calendar date in the exact YYYY-MM-DD layout.
func Date(raw string) (time.Time, error) {
	if IsBlank(raw) {
		return time.Time{}, fmt.Errorf("%w: date", ErrRequired)
	}
	parsed, err := time.Parse(dateLayout, trimmed(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format %q", ErrMalformed, raw)
	}
	return parsed, nil
}

// LocalDateTime parses a required wall-clock timestamp in the exact
// "YYYY-MM-DD HH:MM" layout, interprets it in loc, and converts to UTC.
func LocalDateTime(raw string, loc *time.Location) (time.Time, error) {
	if IsBlank(raw) {
		return time.Time{}, fmt.Errorf("%w: datetime", ErrRequired)
	}
	parsed, err := time.ParseInLocation(dateTimeLayout, trimmed(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid datetime format %q", ErrMalformed, raw)
	}
	return parsed.UTC(), nil
}

// OptionalLocalDateTime behaves like LocalDateTime for present values but
// maps an absent value to nil. A present-but-malformed value still fails:
// silently nulling it would hide corrupt source data.
func OptionalLocalDateTime(raw string, loc *time.Location) (*time.Time, error) {
	if IsBlank(raw) {
		return nil, nil
	}
	parsed, err := LocalDateTime(raw, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
