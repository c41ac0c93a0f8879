package diag

import (
	"context"
	"fmt"
	"log/slog"
)

// Severity ranks a recovered condition
type Severity string

const (
	Warning Severity = "warning"
	Notice  Severity = "notice"
)

// Kind identifies what was recovered in place during a conversion
type Kind string

const (
	// DegenerateGeometry: rotation undefined for a zero-length or self-closing element
	DegenerateGeometry Kind = "degenerate_geometry"
	// ChordMismatch: integrated chord length differs from the declared chord
	ChordMismatch Kind = "chord_mismatch"
	// CoordinateGap: an element does not start where the previous one ended
	CoordinateGap Kind = "coordinate_gap"
	// CurveClamped: vertical curve length clipped to the configured bounds
	CurveClamped Kind = "curve_clamped"
	// CurveShortened: vertical curve shortened to fit between breakpoints
	CurveShortened Kind = "curve_shortened"
)

// Condition is a non-fatal finding reported alongside a conversion result
type Condition struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Index    int      `json:"index"`
	Station  float64  `json:"station"`
	Message  string   `json:"message"`
}

// Warnf creates a warning-level condition
func Warnf(kind Kind, index int, station float64, format string, args ...any) Condition {
	return Condition{Kind: kind, Severity: Warning, Index: index, Station: station, Message: fmt.Sprintf(format, args...)}
}

// Noticef creates an informational condition
func Noticef(kind Kind, index int, station float64, format string, args ...any) Condition {
	return Condition{Kind: kind, Severity: Notice, Index: index, Station: station, Message: fmt.Sprintf(format, args...)}
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s at record %d (station %.3f): %s", c.Severity, c.Kind, c.Index, c.Station, c.Message)
}

// Log writes each condition to logger; warnings at Warn, notices at Info
func Log(logger *slog.Logger, conditions []Condition) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, c := range conditions {
		level := slog.LevelInfo
		if c.Severity == Warning {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, c.Message,
			"kind", c.Kind,
			"record", c.Index,
			"station", c.Station)
	}
}

// Count returns how many conditions have the given kind
func Count(conditions []Condition, kind Kind) int {
	n := 0
	for _, c := range conditions {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
