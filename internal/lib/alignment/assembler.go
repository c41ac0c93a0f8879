package alignment

import (
	"context"
	"runtime"

	"github.com/paulmach/orb/planar"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/dpup/titnyl/internal/lib/diag"
)

// Options controls horizontal assembly
type Options struct {
	// Step is the integration step in station units
	Step float64
	// StationTolerance is the allowed mismatch between adjacent element stations
	StationTolerance float64
	// Workers bounds per-element parallelism; 0 uses GOMAXPROCS
	Workers int
}

// DefaultOptions returns the default assembly options
func DefaultOptions() Options {
	return Options{
		Step:             DefaultStep,
		StationTolerance: StationTolerance,
	}
}

type placed struct {
	polyline   GlobalPolyline
	conditions []diag.Condition
}

// Assemble integrates, rotates and joins all elements into one station-tagged alignment.
// Elements must be contiguous in station; the first offending record aborts the assembly.
func Assemble(ctx context.Context, elements []HorizontalElement, opts Options) (Alignment, []diag.Condition, error) {
	if len(elements) == 0 {
		return Alignment{}, nil, structuralf(RecordHorizontal, 0, "no horizontal elements")
	}
	if err := CheckContinuity(elements, opts.StationTolerance); err != nil {
		return Alignment{}, nil, err
	}

	step := opts.Step
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]placed, len(elements))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range elements {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			el := elements[i]
			poly, conds := Rotate(el, Integrate(el, step))
			results[i] = placed{polyline: poly, conditions: conds}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Alignment{}, nil, err
	}

	var conditions []diag.Condition
	var samples []Sample
	for i, el := range elements {
		r := results[i]
		conditions = append(conditions, r.conditions...)

		if i > 0 {
			prev := elements[i-1]
			if gap := planar.Distance(prev.End(), el.Start()); gap > CoordinateGapTolerance {
				conditions = append(conditions, diag.Noticef(diag.CoordinateGap, el.Index, el.StartStation,
					"element starts %.3f from the previous element's end", gap))
			}
			// the later element's first sample replaces the junction point
			samples = samples[:len(samples)-1]
		}

		length := el.Length()
		for j, p := range r.polyline.Points {
			samples = append(samples, Sample{
				Station: el.StartStation + length*r.polyline.Fractions[j],
				E:       p[0],
				N:       p[1],
			})
		}
	}
	return Alignment{Samples: samples}, conditions, nil
}

// CheckContinuity validates every element and verifies that each element starts where the
// previous one ended, within tolerance.
func CheckContinuity(elements []HorizontalElement, tolerance float64) error {
	if tolerance <= 0 {
		tolerance = StationTolerance
	}
	for i, el := range elements {
		if err := el.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := elements[i-1]
		if !scalar.EqualWithinAbs(el.StartStation, prev.EndStation, tolerance) {
			kind := "gap"
			if el.StartStation < prev.EndStation {
				kind = "overlap"
			}
			return structuralf(RecordHorizontal, el.Index,
				"station %s: element starts at %.3f but previous element ends at %.3f",
				kind, el.StartStation, prev.EndStation)
		}
	}
	return nil
}
