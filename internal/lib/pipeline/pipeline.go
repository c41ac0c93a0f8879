package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/diag"
	"github.com/dpup/titnyl/internal/lib/geometry"
	"github.com/dpup/titnyl/internal/lib/profile"
)

// Input is the parsed content of one horizontal/vertical file pair
type Input struct {
	Elements []alignment.HorizontalElement
	Points   []alignment.VerticalPoint
}

// Options controls a conversion
type Options struct {
	// Horizontal assembly: integration step, station tolerance, workers
	Alignment alignment.Options
	// Smooth integrates curvature; when false only declared endpoints are used
	Smooth bool
	// Profile controls vertical smoothing and curve bounds
	Profile profile.Options
	// EPSG forces a candidate code; 0 detects it
	EPSG int
	// Table is the candidate reference system table
	Table crs.Table
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Alignment: alignment.DefaultOptions(),
		Smooth:    true,
		Profile:   profile.DefaultOptions(),
		Table:     crs.DefaultTable(),
	}
}

// Convert turns one file pair into a geographic 3D polyline. Structural and CRS errors abort
// without output; recovered conditions are logged and returned on the geometry.
func Convert(ctx context.Context, in Input, opts Options) (*geometry.Geometry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(in.Elements) == 0 {
		return nil, &alignment.StructuralError{Record: alignment.RecordHorizontal, Reason: "no horizontal elements"}
	}

	detector := crs.NewDetector(opts.Table)
	candidate, axis, detected, err := resolveCRS(detector, in.Elements[0], opts.EPSG)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved reference system",
		"epsg", candidate.Code,
		"axis", axis,
		"detected", detected)

	elements := in.Elements
	if axis.Swapped() {
		elements = make([]alignment.HorizontalElement, len(in.Elements))
		for i, el := range in.Elements {
			elements[i] = el.SwapAxes()
		}
	}

	var (
		align      alignment.Alignment
		conditions []diag.Condition
	)
	if opts.Smooth {
		align, conditions, err = alignment.Assemble(ctx, elements, opts.Alignment)
	} else {
		align, err = alignment.Endpoints(elements, opts.Alignment.StationTolerance)
	}
	if err != nil {
		return nil, err
	}

	prof, profConds, err := profile.Build(in.Points, opts.Profile)
	if err != nil {
		return nil, err
	}
	conditions = append(conditions, profConds...)

	transformer, err := detector.Transformer(candidate)
	if err != nil {
		return nil, err
	}
	g, err := geometry.Compose(align, prof, transformer)
	if err != nil {
		return nil, err
	}
	g.Provenance.Axis = axis
	g.Provenance.Detected = detected
	g.Conditions = conditions

	diag.Log(logger, conditions)
	return g, nil
}

func resolveCRS(d *crs.Detector, first alignment.HorizontalElement, code int) (crs.Candidate, crs.AxisOrder, bool, error) {
	if code != 0 {
		c, ok := d.Table().Lookup(code)
		if !ok {
			return crs.Candidate{}, "", false, fmt.Errorf("EPSG:%d is not in the candidate table", code)
		}
		return c, crs.NorthEast, false, nil
	}
	det, err := d.Detect(first.StartN, first.StartE)
	if err != nil {
		return crs.Candidate{}, "", false, err
	}
	return det.Candidate, det.Axis, true, nil
}
