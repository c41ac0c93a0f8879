package alignment

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// DegenerateLength is the element length below which integration yields a single point
	DegenerateLength = 1e-3

	// StationTolerance is the default allowed mismatch between adjacent element stations
	StationTolerance = 1e-2

	// CoordinateGapTolerance is the distance between one element's end and the next element's start
	// above which a gap is reported
	CoordinateGapTolerance = 1e-2

	// DefaultStep is the integration step used when none is given
	DefaultStep = 1.0

	// MinStep bounds the integration step from below so the sample count stays finite
	MinStep = 1e-2

	// ChordMismatchTolerance is the relative chord length difference above which a notice is emitted
	ChordMismatchTolerance = 1e-3
)

// Kind classifies a horizontal element by its radii
type Kind string

const (
	KindLine     Kind = "line"
	KindArc      Kind = "arc"
	KindClothoid Kind = "clothoid"
)

// HorizontalElement is one station-indexed curvature element of a horizontal alignment.
// A radius of 0 means infinite radius; negative radii turn left.
type HorizontalElement struct {
	Index        int     `json:"index"`
	StartStation float64 `json:"start_station"`
	EndStation   float64 `json:"end_station"`
	StartRadius  float64 `json:"start_radius"`
	EndRadius    float64 `json:"end_radius"`
	StartN       float64 `json:"start_n"`
	StartE       float64 `json:"start_e"`
	EndN         float64 `json:"end_n"`
	EndE         float64 `json:"end_e"`
}

// Length returns the station length of the element
func (e HorizontalElement) Length() float64 {
	return e.EndStation - e.StartStation
}

// Kind derives the element classification from its radii
func (e HorizontalElement) Kind() Kind {
	switch {
	case e.StartRadius == 0 && e.EndRadius == 0:
		return KindLine
	case e.StartRadius == e.EndRadius:
		return KindArc
	default:
		return KindClothoid
	}
}

// StartCurvature returns k = -1/R at the element start, 0 for a straight
func (e HorizontalElement) StartCurvature() float64 {
	return curvature(e.StartRadius)
}

// EndCurvature returns k = -1/R at the element end, 0 for a straight
func (e HorizontalElement) EndCurvature() float64 {
	return curvature(e.EndRadius)
}

func curvature(radius float64) float64 {
	if radius == 0 {
		return 0
	}
	return -1 / radius
}

// Start returns the declared start coordinate as (E, N)
func (e HorizontalElement) Start() orb.Point {
	return orb.Point{e.StartE, e.StartN}
}

// End returns the declared end coordinate as (E, N)
func (e HorizontalElement) End() orb.Point {
	return orb.Point{e.EndE, e.EndN}
}

// Validate checks the element invariants
func (e HorizontalElement) Validate() error {
	if math.IsNaN(e.StartStation) || math.IsNaN(e.EndStation) {
		return structuralf(RecordHorizontal, e.Index, "station is not a number")
	}
	if e.Length() <= 0 {
		return structuralf(RecordHorizontal, e.Index,
			"non-positive length: start station %.3f, end station %.3f", e.StartStation, e.EndStation)
	}
	return nil
}

// SwapAxes returns a copy with northing and easting exchanged
func (e HorizontalElement) SwapAxes() HorizontalElement {
	e.StartN, e.StartE = e.StartE, e.StartN
	e.EndN, e.EndE = e.EndE, e.EndN
	return e
}

// VerticalPoint is one station/elevation pair of a vertical profile
type VerticalPoint struct {
	Index       int      `json:"index"`
	Station     float64  `json:"station"`
	Elevation   float64  `json:"elevation"`
	CurveRadius *float64 `json:"curve_radius,omitempty"`
}

// Radius returns the declared vertical curve radius, if any
func (p VerticalPoint) Radius() (float64, bool) {
	if p.CurveRadius == nil {
		return 0, false
	}
	return *p.CurveRadius, true
}

// ValidateProfile checks that stations are strictly increasing
func ValidateProfile(points []VerticalPoint) error {
	for i := 1; i < len(points); i++ {
		if points[i].Station <= points[i-1].Station {
			return structuralf(RecordVertical, points[i].Index,
				"station %.3f does not follow %.3f", points[i].Station, points[i-1].Station)
		}
	}
	return nil
}

// Sample is one station-tagged point of the assembled alignment
type Sample struct {
	Station float64 `json:"station"`
	E       float64 `json:"e"`
	N       float64 `json:"n"`
}

// Alignment is the continuous horizontal polyline covering all elements
type Alignment struct {
	Samples []Sample `json:"samples"`
}

// LineString returns the alignment as an (E, N) line string
func (a Alignment) LineString() orb.LineString {
	ls := make(orb.LineString, len(a.Samples))
	for i, s := range a.Samples {
		ls[i] = orb.Point{s.E, s.N}
	}
	return ls
}

// PlanarLength returns the length of the polyline in projected units
func (a Alignment) PlanarLength() float64 {
	return planar.Length(a.LineString())
}

// Stations returns the station of every sample
func (a Alignment) Stations() []float64 {
	out := make([]float64, len(a.Samples))
	for i, s := range a.Samples {
		out[i] = s.Station
	}
	return out
}
