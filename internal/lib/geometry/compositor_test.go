package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/profile"
)

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, _, err := profile.Build([]alignment.VerticalPoint{
		{Index: 0, Station: 0, Elevation: 100},
		{Index: 1, Station: 100, Elevation: 110},
	}, profile.DefaultOptions())
	require.NoError(t, err)
	return p
}

func TestCompose(t *testing.T) {
	tr, err := crs.NewTransformer(crs.UTMZone(32))
	require.NoError(t, err)

	a := alignment.Alignment{Samples: []alignment.Sample{
		{Station: 0, E: 500000, N: 6603000},
		{Station: 50, E: 500050, N: 6603000},
		{Station: 100, E: 500100, N: 6603000},
	}}

	g, err := Compose(a, testProfile(t), tr)
	require.NoError(t, err)
	require.Len(t, g.Coordinates, 3)

	assert.Equal(t, []float64{0, 50, 100}, g.Stations)
	assert.InDelta(t, 100, g.Coordinates[0].Elevation, 1e-9)
	assert.InDelta(t, 105, g.Coordinates[1].Elevation, 1e-9)
	assert.InDelta(t, 110, g.Coordinates[2].Elevation, 1e-9)

	assert.InDelta(t, 9.0, g.Coordinates[0].Longitude, 1e-6)
	assert.Greater(t, g.Coordinates[2].Longitude, g.Coordinates[1].Longitude)
	assert.InDelta(t, g.Coordinates[0].Latitude, g.Coordinates[2].Latitude, 1e-4)

	assert.Equal(t, 25832, g.Provenance.EPSG)
	assert.Equal(t, crs.NorthEast, g.Provenance.Axis)
	assert.Equal(t, 3, g.Summary.Samples)
	assert.Equal(t, 100.0, g.Summary.StationEnd)
	assert.InDelta(t, 100, g.Summary.PlanarLength, 1e-9)
	assert.InDelta(t, 100, g.Summary.GeodesicLength, 1)
	assert.InDelta(t, g.Summary.GeodesicLength, g.Summary.EndpointDistance, 1e-6, "straight track")

	positions := g.Positions()
	require.Len(t, positions, 3)
	assert.Equal(t, []float64{g.Coordinates[1].Longitude, g.Coordinates[1].Latitude, 105}, positions[1])
}

func TestCompose_ClampsElevationOutsideProfile(t *testing.T) {
	tr, err := crs.NewTransformer(crs.UTMZone(32))
	require.NoError(t, err)

	a := alignment.Alignment{Samples: []alignment.Sample{
		{Station: -20, E: 500000, N: 6603000},
		{Station: 250, E: 500270, N: 6603000},
	}}

	g, err := Compose(a, testProfile(t), tr)
	require.NoError(t, err)
	assert.Equal(t, 100.0, g.Coordinates[0].Elevation)
	assert.InDelta(t, 110, g.Coordinates[1].Elevation, 1e-9)
}

func TestCompose_Errors(t *testing.T) {
	tr, err := crs.NewTransformer(crs.UTMZone(32))
	require.NoError(t, err)

	_, err = Compose(alignment.Alignment{}, testProfile(t), tr)
	assert.Error(t, err)

	a := alignment.Alignment{Samples: []alignment.Sample{{E: 500000, N: 6603000}}}
	_, err = Compose(a, nil, tr)
	assert.Error(t, err)
	_, err = Compose(a, testProfile(t), nil)
	assert.Error(t, err)
}
