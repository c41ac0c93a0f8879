package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Polyline represents an encoded polyline with optional decoded points
type Polyline struct {
	EncodedPolyline string  `json:"encoded_polyline"`
	Points          []Point `json:"points"`
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Great-circle length of a point sequence in meters
	PolylineLength(points []Point) (float64, error)

	// Encode points as a Google polyline string
	EncodePolyline(points []Point) (Polyline, error)

	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) ([]Point, error)
}

// NewGeoUtils is implemented in geo.go
