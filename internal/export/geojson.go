package export

import (
	"encoding/json"
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON builds a feature collection with one 3D line string per feature. A geometry with a
// single vertex is written as a point.
func GeoJSON(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		positions := f.Geometry.Positions()

		var feature *geojson.Feature
		if len(positions) == 1 {
			feature = geojson.NewPointFeature(positions[0])
		} else {
			feature = geojson.NewLineStringFeature(positions)
		}

		g := f.Geometry
		feature.SetProperty("source", Source)
		feature.SetProperty("epsg", g.Provenance.EPSG)
		feature.SetProperty("crs_name", g.Provenance.Name)
		feature.SetProperty("axis_order", string(g.Provenance.Axis))
		feature.SetProperty("epsg_detected", g.Provenance.Detected)
		feature.SetProperty("smooth", f.Smooth)
		feature.SetProperty("smooth_z", f.SmoothZ)
		if f.Filename != "" {
			feature.SetProperty("filename", f.Filename)
		}
		feature.SetProperty("summary", g.Summary)
		if len(g.Conditions) > 0 {
			feature.SetProperty("conditions", g.Conditions)
		}
		fc.AddFeature(feature)
	}

	if b, ok := Bound(features); ok {
		fc.BoundingBox = []float64{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()}
	}
	return fc
}

// WriteGeoJSON writes the collection. A non-empty message is added as a top-level member.
func WriteGeoJSON(w io.Writer, features []Feature, message string) error {
	data, err := GeoJSON(features).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}

	if message != "" {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to decode GeoJSON: %w", err)
		}
		msg, err := json.Marshal(message)
		if err != nil {
			return err
		}
		doc["message"] = msg
		if data, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("failed to encode GeoJSON: %w", err)
		}
	}

	_, err = w.Write(data)
	return err
}
