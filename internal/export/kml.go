package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/twpayne/go-kml"
)

// KML writes one placemark per feature with absolute altitudes
func KML(w io.Writer, name string, features []Feature) error {
	doc := kml.Document(kml.Name(name))
	for i, f := range features {
		coords := make([]kml.Coordinate, len(f.Geometry.Coordinates))
		for j, c := range f.Geometry.Coordinates {
			coords[j] = kml.Coordinate{Lon: c.Longitude, Lat: c.Latitude, Alt: c.Elevation}
		}

		title := f.Filename
		if title == "" {
			title = fmt.Sprintf("alignment %d", i+1)
		}
		doc.Add(kml.Placemark(
			kml.Name(title),
			kml.Description(describe(f)),
			kml.LineString(
				kml.AltitudeMode(kml.AltitudeModeAbsolute),
				kml.Coordinates(coords...),
			),
		))
	}

	if err := kml.KML(doc).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func describe(f Feature) string {
	g := f.Geometry
	var b strings.Builder
	fmt.Fprintf(&b, "%s, axis order %s", g.Provenance.Name, g.Provenance.Axis)
	fmt.Fprintf(&b, "; stations %.3f to %.3f", g.Summary.StationStart, g.Summary.StationEnd)
	fmt.Fprintf(&b, "; length %.1f m", g.Summary.GeodesicLength)
	if n := len(g.Conditions); n > 0 {
		fmt.Fprintf(&b, "; %d conditions", n)
	}
	return b.String()
}
