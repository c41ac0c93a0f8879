package alignment

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// LocalPolyline is an element integrated in its own frame: it starts at the origin with heading 0.
// Fractions[i] is the arc length of Points[i] divided by the element length.
type LocalPolyline struct {
	Points    []r2.Vec
	Fractions []float64
}

// End returns the last local point
func (l LocalPolyline) End() r2.Vec {
	if len(l.Points) == 0 {
		return r2.Vec{}
	}
	return l.Points[len(l.Points)-1]
}

// Heading returns θ(s) for an element with curvature varying linearly from k0 to k1 over length.
// The closed form keeps heading free of accumulated drift.
func Heading(k0, k1, length, s float64) float64 {
	return k0*s + 0.5*((k1-k0)/length)*s*s
}

// Integrate converts one element into a local polyline sampled at roughly ds.
// Positions come from the midpoint rule over ceil(L/ds) equal sub-steps. A non-positive ds uses
// DefaultStep; smaller steps are raised to MinStep.
func Integrate(el HorizontalElement, ds float64) LocalPolyline {
	switch {
	case ds <= 0 || math.IsNaN(ds):
		ds = DefaultStep
	case ds < MinStep:
		ds = MinStep
	}

	length := el.Length()
	if length < DegenerateLength {
		return LocalPolyline{Points: []r2.Vec{{}}, Fractions: []float64{0}}
	}

	steps := int(math.Ceil(length / ds))
	if steps < 1 {
		steps = 1
	}
	step := length / float64(steps)

	points := make([]r2.Vec, steps+1)
	fractions := make([]float64, steps+1)
	for i := 1; i <= steps; i++ {
		fractions[i] = float64(i) / float64(steps)
	}
	fractions[steps] = 1

	if el.Kind() == KindLine {
		for i := 1; i <= steps; i++ {
			points[i] = r2.Vec{X: length * fractions[i]}
		}
		return LocalPolyline{Points: points, Fractions: fractions}
	}

	k0, k1 := el.StartCurvature(), el.EndCurvature()
	var x, y float64
	for i := 1; i <= steps; i++ {
		mid := (float64(i) - 0.5) * step
		theta := Heading(k0, k1, length, mid)
		x += math.Cos(theta) * step
		y += math.Sin(theta) * step
		points[i] = r2.Vec{X: x, Y: y}
	}
	return LocalPolyline{Points: points, Fractions: fractions}
}
