package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors tag pipeline failures by phase so callers can classify
// them without string matching.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrStorage       = errors.New("storage error")
	ErrReconcile     = errors.New("reconciliation error")
)

// wrap tags err with a sentinel marker and phase context.
func wrap(marker error, phase, message string, err error) error {
	detail := buildDetail(phase, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(phase, message string) string {
	parts := make([]string, 0, 2)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
