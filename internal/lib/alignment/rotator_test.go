package alignment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/titnyl/internal/lib/diag"
)

func TestRotate_LineAlongEast(t *testing.T) {
	el := HorizontalElement{StartStation: 0, EndStation: 100, EndE: 100}

	global, conds := Rotate(el, Integrate(el, 10))
	assert.Empty(t, conds)
	require.Len(t, global.Points, 11)
	for i, p := range global.Points {
		assert.InDelta(t, float64(i)*10, p[0], 1e-9)
		assert.InDelta(t, 0, p[1], 1e-9)
	}
}

func TestRotate_MatchesDeclaredChord(t *testing.T) {
	// arc of radius 400 turning left, placed at an arbitrary bearing
	const R, L = -400.0, 180.0
	chordLen := 2 * math.Abs(R) * math.Sin(L/(2*math.Abs(R)))
	bearing := 2.1
	start := [2]float64{598123.25, 6603456.75}

	el := HorizontalElement{
		Index:        3,
		StartStation: 250, EndStation: 250 + L,
		StartRadius: R, EndRadius: R,
		StartE: start[0], StartN: start[1],
		EndE: start[0] + chordLen*math.Cos(bearing),
		EndN: start[1] + chordLen*math.Sin(bearing),
	}

	global, conds := Rotate(el, Integrate(el, 1))
	assert.Empty(t, conds, "consistent chord needs no notice")

	first, last := global.Points[0], global.Points[len(global.Points)-1]
	assert.InDelta(t, el.StartE, first[0], 1e-6)
	assert.InDelta(t, el.StartN, first[1], 1e-6)
	assert.InDelta(t, el.EndE, last[0], 1e-6)
	assert.InDelta(t, el.EndN, last[1], 1e-6)
}

func TestRotate_ChordMismatchNotice(t *testing.T) {
	el := HorizontalElement{Index: 7, StartStation: 0, EndStation: 100, StartN: 10, EndN: 120}

	global, conds := Rotate(el, Integrate(el, 5))
	require.Len(t, conds, 1)
	assert.Equal(t, diag.ChordMismatch, conds[0].Kind)
	assert.Equal(t, diag.Notice, conds[0].Severity)
	assert.Equal(t, 7, conds[0].Index)

	last := global.Points[len(global.Points)-1]
	assert.InDelta(t, 0, last[0], 1e-9)
	assert.InDelta(t, 120, last[1], 1e-9)
}

func TestRotate_DegenerateFallsBackToIdentity(t *testing.T) {
	t.Run("zero length", func(t *testing.T) {
		el := HorizontalElement{Index: 1, StartStation: 5, EndStation: 5.0001, StartE: 50, StartN: 60, EndE: 50, EndN: 60}

		global, conds := Rotate(el, Integrate(el, 1))
		require.Len(t, conds, 1)
		assert.Equal(t, diag.DegenerateGeometry, conds[0].Kind)
		assert.Equal(t, diag.Warning, conds[0].Severity)
		require.Len(t, global.Points, 1)
		assert.Equal(t, [2]float64{50, 60}, [2]float64(global.Points[0]))
	})

	t.Run("self closing", func(t *testing.T) {
		el := HorizontalElement{Index: 2, StartStation: 0, EndStation: 40, StartE: 10, StartN: 20, EndE: 10, EndN: 20}

		global, conds := Rotate(el, Integrate(el, 10))
		require.Len(t, conds, 1)
		assert.Equal(t, diag.DegenerateGeometry, conds[0].Kind)

		// identity rotation keeps the local heading of 0 (due east)
		last := global.Points[len(global.Points)-1]
		assert.InDelta(t, 50, last[0], 1e-9)
		assert.InDelta(t, 20, last[1], 1e-9)
	})
}
