package geometry

import (
	"errors"
	"fmt"

	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/geo"
	"github.com/dpup/titnyl/internal/lib/profile"
)

// Compose samples the profile at every alignment station and projects each (E, N, z) vertex
// to (longitude, latitude, z).
func Compose(a alignment.Alignment, p *profile.Profile, t *crs.Transformer) (*Geometry, error) {
	if len(a.Samples) == 0 {
		return nil, errors.New("alignment has no samples")
	}
	if p == nil {
		return nil, errors.New("profile is required")
	}
	if t == nil {
		return nil, errors.New("transformer is required")
	}

	lonLat, err := t.Transform(a.LineString())
	if err != nil {
		return nil, fmt.Errorf("failed to transform alignment: %w", err)
	}

	g := &Geometry{
		Coordinates: make([]Coordinate, len(a.Samples)),
		Stations:    a.Stations(),
	}
	for i, s := range a.Samples {
		g.Coordinates[i] = Coordinate{
			Longitude: lonLat[i][0],
			Latitude:  lonLat[i][1],
			Elevation: p.Elevation(s.Station),
		}
	}

	utils := geo.NewGeoUtils()
	points := g.Points()
	geodesic, err := utils.PolylineLength(points)
	if err != nil {
		return nil, fmt.Errorf("failed to measure geometry: %w", err)
	}
	endpoints, err := utils.PointToPoint(points[0], points[len(points)-1])
	if err != nil {
		return nil, fmt.Errorf("failed to measure geometry: %w", err)
	}

	c := t.Candidate()
	g.Provenance = Provenance{EPSG: c.Code, Name: c.Name, Axis: crs.NorthEast}
	g.Summary = Summary{
		Samples:          len(a.Samples),
		StationStart:     a.Samples[0].Station,
		StationEnd:       a.Samples[len(a.Samples)-1].Station,
		PlanarLength:     a.PlanarLength(),
		GeodesicLength:   geodesic,
		EndpointDistance: endpoints,
	}
	return g, nil
}
