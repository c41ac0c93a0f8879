package alignment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/titnyl/internal/lib/diag"
)

func TestAssemble_SingleLine(t *testing.T) {
	elements := []HorizontalElement{
		{StartStation: 0, EndStation: 100, StartN: 0, StartE: 0, EndN: 0, EndE: 100},
	}

	a, conds, err := Assemble(context.Background(), elements, Options{Step: 10})
	require.NoError(t, err)
	assert.Empty(t, conds)
	require.Len(t, a.Samples, 11)
	for i, s := range a.Samples {
		assert.InDelta(t, float64(i)*10, s.Station, 1e-9)
		assert.InDelta(t, float64(i)*10, s.E, 1e-9)
		assert.InDelta(t, 0, s.N, 1e-9)
	}
	assert.InDelta(t, 100, a.PlanarLength(), 1e-9)
}

func TestAssemble_DropsJunctionDuplicates(t *testing.T) {
	elements := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 100, EndE: 100},
		{Index: 1, StartStation: 100, EndStation: 200, StartE: 100, EndE: 100, EndN: 100},
	}

	a, conds, err := Assemble(context.Background(), elements, Options{Step: 10, Workers: 2})
	require.NoError(t, err)
	assert.Empty(t, conds)
	require.Len(t, a.Samples, 21)

	stations := a.Stations()
	for i := 1; i < len(stations); i++ {
		assert.Greater(t, stations[i], stations[i-1], "stations must be strictly increasing")
	}

	junction := a.Samples[10]
	assert.InDelta(t, 100, junction.Station, 1e-9)
	assert.InDelta(t, 100, junction.E, 1e-9)
	assert.InDelta(t, 0, junction.N, 1e-9)

	last := a.Samples[20]
	assert.InDelta(t, 100, last.E, 1e-9)
	assert.InDelta(t, 100, last.N, 1e-9)
}

func TestAssemble_LineArcLine(t *testing.T) {
	const R = -200.0
	arcLen := math.Pi / 2 * math.Abs(R) // quarter turn to the left
	elements := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 50, EndE: 50},
		{Index: 1, StartStation: 50, EndStation: 50 + arcLen, StartRadius: R, EndRadius: R,
			StartE: 50, EndE: 250, EndN: 200},
		{Index: 2, StartStation: 50 + arcLen, EndStation: 100 + arcLen,
			StartE: 250, StartN: 200, EndE: 250, EndN: 250},
	}

	a, conds, err := Assemble(context.Background(), elements, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, conds)

	last := a.Samples[len(a.Samples)-1]
	assert.InDelta(t, 100+arcLen, last.Station, 1e-9)
	assert.InDelta(t, 250, last.E, 1e-6)
	assert.InDelta(t, 250, last.N, 1e-6)

	// every arc sample stays on the circle centred at (50, 200)
	for _, s := range a.Samples {
		if s.Station > 50 && s.Station < 50+arcLen {
			assert.InDelta(t, 200, math.Hypot(s.E-50, s.N-200), 1e-2)
		}
	}
}

func TestAssemble_StationGapIsStructural(t *testing.T) {
	elements := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 100, EndE: 100},
		{Index: 1, StartStation: 105, EndStation: 200, StartE: 105, EndE: 200},
	}

	_, _, err := Assemble(context.Background(), elements, DefaultOptions())
	require.Error(t, err)

	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, 1, structural.Index)
	assert.Equal(t, RecordHorizontal, structural.Record)
	assert.Contains(t, structural.Reason, "gap")
}

func TestAssemble_OverlapAndNonPositiveLength(t *testing.T) {
	overlap := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 100, EndE: 100},
		{Index: 4, StartStation: 90, EndStation: 200, StartE: 90, EndE: 200},
	}
	_, _, err := Assemble(context.Background(), overlap, DefaultOptions())
	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, 4, structural.Index)
	assert.Contains(t, structural.Reason, "overlap")

	backwards := []HorizontalElement{{Index: 9, StartStation: 50, EndStation: 50}}
	_, _, err = Assemble(context.Background(), backwards, DefaultOptions())
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, 9, structural.Index)

	_, _, err = Assemble(context.Background(), nil, DefaultOptions())
	assert.Error(t, err)
}

func TestAssemble_ReportsCoordinateGap(t *testing.T) {
	elements := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 100, EndE: 100},
		{Index: 1, StartStation: 100, EndStation: 200, StartE: 100.5, EndE: 200.5},
	}

	_, conds, err := Assemble(context.Background(), elements, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Count(conds, diag.CoordinateGap))
}

func TestAssemble_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Assemble(ctx, []HorizontalElement{{StartStation: 0, EndStation: 10, EndE: 10}}, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEndpoints(t *testing.T) {
	elements := []HorizontalElement{
		{Index: 0, StartStation: 0, EndStation: 100, EndE: 100},
		{Index: 1, StartStation: 100, EndStation: 200, StartE: 100, EndE: 200},
		{Index: 2, StartStation: 200, EndStation: 300, StartE: 201, EndE: 300},
	}

	a, err := Endpoints(elements, StationTolerance)
	require.NoError(t, err)
	require.Len(t, a.Samples, 5)
	assert.Equal(t, Sample{Station: 0}, a.Samples[0])
	assert.Equal(t, Sample{Station: 200, E: 200}, a.Samples[2])
	assert.Equal(t, Sample{Station: 200, E: 201}, a.Samples[3])
	assert.Equal(t, Sample{Station: 300, E: 300}, a.Samples[4])
}
