package crs

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Family groups candidate reference systems
type Family string

const (
	UTM      Family = "utm"
	NTM      Family = "ntm"
	Compound Family = "compound"
)

// AxisOrder records how the raw file stores coordinate pairs
type AxisOrder string

const (
	// NorthEast: the first stored value is the northing
	NorthEast AxisOrder = "north_east"
	// EastNorth: the first stored value is the easting, so N/E must be swapped
	EastNorth AxisOrder = "east_north"
)

// Swapped reports whether stored N/E fields must be exchanged
func (a AxisOrder) Swapped() bool {
	return a == EastNorth
}

// Candidate is one projected reference system the detector may choose
type Candidate struct {
	Code       int    `json:"code"`
	Family     Family `json:"family"`
	Zone       int    `json:"zone"`
	Name       string `json:"name"`
	Definition string `json:"-"`
}

// EPSG returns the "EPSG:<code>" identifier
func (c Candidate) EPSG() string {
	return fmt.Sprintf("EPSG:%d", c.Code)
}

// Table is the immutable candidate list and the geographic region valid results must fall in.
// Bounds is expressed as (longitude, latitude).
type Table struct {
	Candidates []Candidate
	Bounds     orb.Bound
	// UTMEastingThreshold: eastings above it try UTM zones before NTM zones
	UTMEastingThreshold float64
}

// Lookup finds a candidate by EPSG code
func (t Table) Lookup(code int) (Candidate, bool) {
	for _, c := range t.Candidates {
		if c.Code == code {
			return c, true
		}
	}
	return Candidate{}, false
}

// Detection is the result of a successful CRS search
type Detection struct {
	Candidate Candidate `json:"candidate"`
	Axis      AxisOrder `json:"axis"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
}

// Attempt records one (code, axis order) hypothesis that was tested
type Attempt struct {
	Code      int
	Axis      AxisOrder
	Longitude float64
	Latitude  float64
	Err       error
}

// DetectionError reports that no candidate placed the sample inside the bounds
type DetectionError struct {
	Attempts []Attempt
}

func (e *DetectionError) Error() string {
	codes := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		codes = append(codes, fmt.Sprintf("%d/%s", a.Code, a.Axis))
	}
	return fmt.Sprintf("crs detection failed: no candidate within bounds (tried %d: %v)", len(e.Attempts), codes)
}
