package export

import (
	"fmt"
	"io"

	"github.com/dpup/titnyl/internal/lib/geo"
)

// Polyline writes the 2D track of each feature as a Google encoded polyline, one per line.
// Elevation is not encoded.
func Polyline(w io.Writer, features []Feature) error {
	utils := geo.NewGeoUtils()
	for _, f := range features {
		encoded, err := utils.EncodePolyline(f.Geometry.Points())
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.Filename, err)
		}
		if _, err := fmt.Fprintln(w, encoded.EncodedPolyline); err != nil {
			return err
		}
	}
	return nil
}
