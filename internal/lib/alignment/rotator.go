package alignment

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/dpup/titnyl/internal/lib/diag"
)

// chordEpsilon is the chord length below which a bearing is undefined
const chordEpsilon = 1e-9

// GlobalPolyline is an element placed in the projected frame as (E, N) points
type GlobalPolyline struct {
	Points    orb.LineString
	Fractions []float64
}

// Rotate places a local polyline in the global frame anchored at the element's declared start.
// The rotation aligns the local chord with the declared chord and a uniform scale makes the
// last point land on the declared end. When the rotation angle is undefined the identity is used
// and a DegenerateGeometry warning is returned.
func Rotate(el HorizontalElement, local LocalPolyline) (GlobalPolyline, []diag.Condition) {
	var conditions []diag.Condition

	end := local.End()
	chord := r2.Vec{X: el.EndE - el.StartE, Y: el.EndN - el.StartN}
	localLen, globalLen := r2.Norm(end), r2.Norm(chord)

	phi, scale := 0.0, 1.0
	switch {
	case localLen < chordEpsilon:
		conditions = append(conditions, diag.Warnf(diag.DegenerateGeometry, el.Index, el.StartStation,
			"local chord of %s element has zero length; using identity rotation", el.Kind()))
	case globalLen < chordEpsilon:
		conditions = append(conditions, diag.Warnf(diag.DegenerateGeometry, el.Index, el.StartStation,
			"declared start and end coincide; using identity rotation"))
	default:
		phi = math.Atan2(chord.Y, chord.X) - math.Atan2(end.Y, end.X)
		scale = globalLen / localLen
		if math.Abs(scale-1) > ChordMismatchTolerance {
			conditions = append(conditions, diag.Noticef(diag.ChordMismatch, el.Index, el.StartStation,
				"integrated chord %.3f differs from declared chord %.3f", localLen, globalLen))
		}
	}

	rot := r2.NewRotation(phi, r2.Vec{})
	origin := r2.Vec{X: el.StartE, Y: el.StartN}
	points := make(orb.LineString, len(local.Points))
	for i, p := range local.Points {
		g := r2.Add(origin, r2.Scale(scale, rot.Rotate(p)))
		points[i] = orb.Point{g.X, g.Y}
	}
	return GlobalPolyline{Points: points, Fractions: local.Fractions}, conditions
}
