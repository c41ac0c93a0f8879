package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPair(t *testing.T, dir, stem string, startE float64) (string, string) {
	t.Helper()
	tit := "10 1 0.000 0.000 0.000 0.000\n" +
		fmt.Sprintf("10%11.3f%11.3f%11.3f%11.3f%11.3f\n", 6603000.0, startE, 6603000.0, startE+100, 100.0)
	titPath := filepath.Join(dir, stem+".TIT")
	nylPath := filepath.Join(dir, stem+".NYL")
	require.NoError(t, os.WriteFile(titPath, []byte(tit), 0o600))
	require.NoError(t, os.WriteFile(nylPath, []byte("0 100\n100 101\n"), 0o600))
	return titPath, nylPath
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	titPath, nylPath := writeTestPair(t, dir, "E6", 600000)

	var out bytes.Buffer
	require.NoError(t, runConvert([]string{"-tit", titPath, "-nyl", nylPath, "-step", "10"}, &out))

	fc, err := geojson.UnmarshalFeatureCollection(out.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Len(t, fc.Features[0].Geometry.LineString, 11)
	assert.Equal(t, "E6.TIT", fc.Features[0].Properties["filename"])
}

func TestRunConvert_DifferentStemsAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	titPath, _ := writeTestPair(t, dir, "horizontal", 600000)
	_, nylPath := writeTestPair(t, dir, "vertical", 600000)
	outPath := filepath.Join(dir, "out.kml")

	require.NoError(t, runConvert([]string{
		"-tit", titPath, "-nyl", nylPath, "-format", "kml", "-smooth=false", "-o", outPath,
	}, &bytes.Buffer{}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<name>horizontal.TIT</name>")
}

func TestRunConvert_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	titPath, nylPath := writeTestPair(t, dir, "E6", 600000)
	configPath := filepath.Join(dir, "titnyl.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("conversion:\n  integration_step: 50\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runConvert([]string{"-config", configPath, "-tit", titPath, "-nyl", nylPath}, &out))

	fc, err := geojson.UnmarshalFeatureCollection(out.Bytes())
	require.NoError(t, err)
	assert.Len(t, fc.Features[0].Geometry.LineString, 3)
}

func TestRunConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	titPath, nylPath := writeTestPair(t, dir, "E6", 600000)

	assert.Error(t, runConvert([]string{"-tit", titPath}, &bytes.Buffer{}))
	assert.Error(t, runConvert([]string{"-tit", titPath, "-nyl", nylPath, "-format", "shp"}, &bytes.Buffer{}))
	assert.Error(t, runConvert([]string{"-tit", titPath, "-nyl", nylPath, "-step", "0"}, &bytes.Buffer{}))
	assert.Error(t, runConvert([]string{"-tit", filepath.Join(dir, "missing.TIT"), "-nyl", nylPath}, &bytes.Buffer{}))
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeTestPair(t, dir, "a", 600000)
	writeTestPair(t, dir, "b", 610000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runBatch([]string{"-dir", dir, "-format", "polyline"}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestRunDetect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runDetect([]string{"-first", "600000", "-second", "6603000"}, &out))
	assert.Contains(t, out.String(), "EPSG:25832")
	assert.Contains(t, out.String(), "east_north")

	dir := t.TempDir()
	titPath, _ := writeTestPair(t, dir, "E6", 600000)
	out.Reset()
	require.NoError(t, runDetect([]string{"-tit", titPath}, &out))
	assert.Contains(t, out.String(), "north_east")

	assert.Error(t, runDetect(nil, &bytes.Buffer{}))
	assert.Error(t, runDetect([]string{"-first", "100", "-second", "100"}, &bytes.Buffer{}))
}
