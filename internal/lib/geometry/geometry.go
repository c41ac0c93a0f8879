package geometry

import (
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/diag"
	"github.com/dpup/titnyl/internal/lib/geo"
)

// Coordinate is one output vertex
type Coordinate struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Elevation float64 `json:"z"`
}

// Provenance records which reference system produced the geographic coordinates
type Provenance struct {
	EPSG     int           `json:"epsg"`
	Name     string        `json:"name"`
	Axis     crs.AxisOrder `json:"axis_order"`
	Detected bool          `json:"detected"`
}

// Summary holds length figures useful for checking a conversion
type Summary struct {
	Samples          int     `json:"samples"`
	StationStart     float64 `json:"station_start"`
	StationEnd       float64 `json:"station_end"`
	PlanarLength     float64 `json:"planar_length"`
	GeodesicLength   float64 `json:"geodesic_length"`
	// EndpointDistance is the great-circle distance between the first and last vertex
	EndpointDistance float64 `json:"endpoint_distance"`
}

// Geometry is the 3D polyline handed to a serializer
type Geometry struct {
	Coordinates []Coordinate     `json:"coordinates"`
	Stations    []float64        `json:"stations"`
	Provenance  Provenance       `json:"provenance"`
	Summary     Summary          `json:"summary"`
	Conditions  []diag.Condition `json:"conditions,omitempty"`
}

// Positions returns the coordinates as [lon, lat, z] triples
func (g *Geometry) Positions() [][]float64 {
	out := make([][]float64, len(g.Coordinates))
	for i, c := range g.Coordinates {
		out[i] = []float64{c.Longitude, c.Latitude, c.Elevation}
	}
	return out
}

// Points returns the 2D track as geographic points
func (g *Geometry) Points() []geo.Point {
	out := make([]geo.Point, len(g.Coordinates))
	for i, c := range g.Coordinates {
		out[i] = geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return out
}
