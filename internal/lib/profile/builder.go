package profile

import (
	"math"

	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/diag"
)

// Options controls profile construction
type Options struct {
	// Smooth inserts vertical curves at breakpoints
	Smooth bool
	// MinCurveLength and MaxCurveLength bound the vertical curve length
	MinCurveLength float64
	MaxCurveLength float64
	// DefaultCurveLength is used at breakpoints without a declared radius
	DefaultCurveLength float64
	// SlopeChangeThreshold is the minimum |A| that gets a curve
	SlopeChangeThreshold float64
}

// DefaultOptions returns unsmoothed defaults with the standard curve bounds
func DefaultOptions() Options {
	return Options{
		MinCurveLength:       40,
		MaxCurveLength:       900,
		DefaultCurveLength:   100,
		SlopeChangeThreshold: 0.005,
	}
}

// CurveLength returns R·|A| clamped to the configured bounds and whether clamping applied
func CurveLength(radius, slopeDiff float64, opts Options) (float64, bool) {
	raw := math.Abs(radius) * math.Abs(slopeDiff)
	length := math.Min(math.Max(raw, opts.MinCurveLength), opts.MaxCurveLength)
	return length, length != raw
}

// Build constructs a profile from points ordered by strictly increasing station
func Build(points []alignment.VerticalPoint, opts Options) (*Profile, []diag.Condition, error) {
	if len(points) == 0 {
		return nil, nil, &alignment.StructuralError{Record: alignment.RecordVertical, Reason: "empty vertical profile"}
	}
	if err := alignment.ValidateProfile(points); err != nil {
		return nil, nil, err
	}

	if len(points) == 1 {
		p := points[0]
		return &Profile{segments: []Segment{{Kind: Linear, S0: p.Station, S1: p.Station, Z0: p.Elevation}}}, nil, nil
	}

	if !opts.Smooth || len(points) < 3 {
		return &Profile{segments: linearSegments(points)}, nil, nil
	}
	segments, conditions := smoothSegments(points, opts)
	return &Profile{segments: segments}, conditions, nil
}

func linearSegments(points []alignment.VerticalPoint) []Segment {
	segments := make([]Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		segments = append(segments, Segment{
			Kind:  Linear,
			S0:    a.Station,
			S1:    b.Station,
			Z0:    a.Elevation,
			Grade: grade(a, b),
		})
	}
	return segments
}

func grade(a, b alignment.VerticalPoint) float64 {
	return (b.Elevation - a.Elevation) / (b.Station - a.Station)
}

// smoothSegments walks breakpoints in station order. Each curve may only use the room left
// between the previous curve's end and the next breakpoint.
func smoothSegments(points []alignment.VerticalPoint, opts Options) ([]Segment, []diag.Condition) {
	var (
		segments   []Segment
		conditions []diag.Condition
	)

	cursor, cursorZ := points[0].Station, points[0].Elevation
	linearTo := func(s, g float64) {
		if s > cursor {
			segments = append(segments, Segment{Kind: Linear, S0: cursor, S1: s, Z0: cursorZ, Grade: g})
		}
	}

	for i := 1; i < len(points)-1; i++ {
		prev, bp, next := points[i-1], points[i], points[i+1]
		g1, g2 := grade(prev, bp), grade(bp, next)
		a := g2 - g1
		if math.Abs(a) <= opts.SlopeChangeThreshold {
			linearTo(bp.Station, g1)
			cursor, cursorZ = bp.Station, bp.Elevation
			continue
		}

		length := opts.DefaultCurveLength
		if r, ok := bp.Radius(); ok && r != 0 {
			var clamped bool
			length, clamped = CurveLength(r, a, opts)
			if clamped {
				conditions = append(conditions, diag.Noticef(diag.CurveClamped, bp.Index, bp.Station,
					"vertical curve length %.2f clamped to %.2f", math.Abs(r)*math.Abs(a), length))
			}
		}

		half := length / 2
		room := math.Min(bp.Station-cursor, next.Station-bp.Station)
		if room < half {
			conditions = append(conditions, diag.Noticef(diag.CurveShortened, bp.Index, bp.Station,
				"vertical curve half length %.2f shortened to %.2f", half, room))
			half = room
		}
		if half <= 0 {
			linearTo(bp.Station, g1)
			cursor, cursorZ = bp.Station, bp.Elevation
			continue
		}

		start := bp.Station - half
		linearTo(start, g1)
		segments = append(segments, Segment{
			Kind:      Parabolic,
			S0:        start,
			S1:        bp.Station + half,
			Z0:        bp.Elevation - g1*half,
			Grade:     g1,
			Curvature: a / (2 * (2 * half)),
		})
		cursor, cursorZ = bp.Station+half, bp.Elevation+g2*half
	}

	n := len(points)
	linearTo(points[n-1].Station, grade(points[n-2], points[n-1]))
	return segments, conditions
}
