package export

import (
	"github.com/paulmach/orb"

	"github.com/dpup/titnyl/internal/lib/geometry"
)

// Source identifies this converter in exported properties
const Source = "titnyl"

// Feature is one converted file pair ready for serialization
type Feature struct {
	Filename string
	Smooth   bool
	SmoothZ  bool
	Geometry *geometry.Geometry
}

// Bound returns the longitude/latitude extent of all features
func Bound(features []Feature) (orb.Bound, bool) {
	var mp orb.MultiPoint
	for _, f := range features {
		for _, c := range f.Geometry.Coordinates {
			mp = append(mp, orb.Point{c.Longitude, c.Latitude})
		}
	}
	if len(mp) == 0 {
		return orb.Bound{}, false
	}
	return mp.Bound(), true
}
