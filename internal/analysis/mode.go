package analysis

import (
	"fmt"
	"strings"
)

// Mode selects the kind of report the model produces.
type Mode string

const (
	// ModeSimple asks for a short JSON investor abstract.
	ModeSimple Mode = "simple"
	// ModeComplex asks for a full markdown report with [Page N] citations.
	ModeComplex Mode = "complex"
)

// ParseMode accepts a mode name case-insensitively. An empty name means simple.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSimple:
		return ModeSimple, nil
	case ModeComplex:
		return ModeComplex, nil
	default:
		return "", fmt.Errorf("unknown analysis mode %q (want simple or complex)", s)
	}
}
