package geo

import (
	"errors"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

// EarthRadiusMeters is the mean radius used for great-circle lengths
const EarthRadiusMeters = 6371010 // From the c++ s2 library.

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points on the s2 sphere
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	if p1 == p2 {
		return 0, nil
	}
	return latLng(p1).Distance(latLng(p2)).Radians() * EarthRadiusMeters, nil
}

// PolylineLength sums the great-circle length of consecutive points
func (g *geoUtils) PolylineLength(points []Point) (float64, error) {
	if len(points) < 2 {
		return 0, nil
	}
	latLngs := make([]s2.LatLng, len(points))
	for i, p := range points {
		if !isValidCoordinate(p) {
			return 0, errors.New("polyline contains invalid coordinates")
		}
		latLngs[i] = latLng(p)
	}
	return s2.PolylineFromLatLngs(latLngs).Length().Radians() * EarthRadiusMeters, nil
}

// EncodePolyline encodes points with the Google polyline algorithm
func (g *geoUtils) EncodePolyline(points []Point) (Polyline, error) {
	coords := make([][]float64, len(points))
	for i, p := range points {
		if !isValidCoordinate(p) {
			return Polyline{}, errors.New("cannot encode invalid coordinates")
		}
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return Polyline{
		EncodedPolyline: string(polyline.EncodeCoords(coords)),
		Points:          points,
	}, nil
}

// DecodePolyline decodes Google polyline string to point sequence
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}

func latLng(p Point) s2.LatLng {
	return s2.LatLngFromDegrees(p.Latitude, p.Longitude)
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
