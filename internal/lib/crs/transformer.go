package crs

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

// geographic is the longitude/latitude target, in degrees
const geographic = "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs"

// Transformer converts projected (E, N) coordinates of one candidate to (longitude, latitude)
type Transformer struct {
	candidate Candidate
	fn        proj.Transformer
}

// NewTransformer prepares the projection for a candidate
func NewTransformer(c Candidate) (*Transformer, error) {
	src, err := proj.Parse(c.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s definition: %w", c.EPSG(), err)
	}
	dst, err := proj.Parse(geographic)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geographic definition: %w", err)
	}
	fn, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create transform for %s: %w", c.EPSG(), err)
	}
	return &Transformer{candidate: c, fn: fn}, nil
}

// Candidate returns the source reference system
func (t *Transformer) Candidate() Candidate {
	return t.candidate
}

// ToGeographic converts one easting/northing pair
func (t *Transformer) ToGeographic(e, n float64) (lon, lat float64, err error) {
	lon, lat, err = t.fn(e, n)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to project (%.3f, %.3f) from %s: %w", e, n, t.candidate.EPSG(), err)
	}
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return 0, 0, fmt.Errorf("projection of (%.3f, %.3f) from %s is not finite", e, n, t.candidate.EPSG())
	}
	return lon, lat, nil
}

// Transform converts every (E, N) point to (longitude, latitude)
func (t *Transformer) Transform(points []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		lon, lat, err := t.ToGeographic(p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = orb.Point{lon, lat}
	}
	return out, nil
}
