package titnyl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titRecord(seq int, startStation, startRadius, endRadius, a, startN, startE, endN, endE, endStation float64) string {
	first := fmt.Sprintf("10 %d %.3f %.3f %.3f %.3f", seq, startStation, startRadius, endRadius, a)
	second := fmt.Sprintf("10%11.3f%11.3f%11.3f%11.3f%11.3f", startN, startE, endN, endE, endStation)
	return first + "\n" + second + "\n"
}

func TestParseTIT(t *testing.T) {
	input := "HEADER line\n" +
		titRecord(1, 0, 0, 0, 0, 6603000, 600000, 6603000, 600100, 100) +
		titRecord(2, 100, 0, -500, 223.607, 6603000, 600100, 6603010, 600199, 200)

	elements, err := ParseTIT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, elements, 2)

	first := elements[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 0.0, first.StartStation)
	assert.Equal(t, 100.0, first.EndStation)
	assert.Equal(t, 6603000.0, first.StartN)
	assert.Equal(t, 600000.0, first.StartE)
	assert.Equal(t, 600100.0, first.EndE)

	second := elements[1]
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, -500.0, second.EndRadius)
	assert.Equal(t, 6603010.0, second.EndN)
	assert.Equal(t, 200.0, second.EndStation)
}

func TestParseTIT_SkipsBadRecords(t *testing.T) {
	input := "10 1 0 0 0 0\n" +
		"99 this is not a coordinate line\n" +
		"10 2 x 0 0 0\n" +
		"10 garbage\n" +
		titRecord(3, 0, 0, 0, 0, 6603000, 600000, 6603000, 600100, 100) +
		"10 4 100 0 0 0\n" +
		"10      short\n" +
		"10 5 100 0 0 0\n"

	elements, err := ParseTIT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, 100.0, elements[0].EndStation)
}

func TestParseTIT_CRLF(t *testing.T) {
	input := strings.ReplaceAll(titRecord(1, 0, 0, 0, 0, 6603000, 600000, 6603000, 600100, 100), "\n", "\r\n")

	elements, err := ParseTIT(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, 100.0, elements[0].EndStation)
}

func TestParseNYL(t *testing.T) {
	input := "Profil\n" +
		"400 100.5\n" +
		"0 100\n" +
		"200 102 1100\n" +
		"200.0005 103\n" +
		"bad line here\n" +
		"300\n"

	points, err := ParseNYL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 0.0, points[0].Station)
	assert.Equal(t, 100.0, points[0].Elevation)

	// the later duplicate wins and carries no radius
	assert.Equal(t, 200.0005, points[1].Station)
	assert.Equal(t, 103.0, points[1].Elevation)
	_, ok := points[1].Radius()
	assert.False(t, ok)

	assert.Equal(t, 400.0, points[2].Station)
}

func TestParseNYL_Radius(t *testing.T) {
	points, err := ParseNYL(strings.NewReader("0 100\n200 102 -1100\n400 100.5 0\n"))
	require.NoError(t, err)
	require.Len(t, points, 3)

	r, ok := points[1].Radius()
	require.True(t, ok)
	assert.Equal(t, -1100.0, r)

	_, ok = points[2].Radius()
	assert.False(t, ok, "a zero radius means no declared curve")
}

func TestDecode(t *testing.T) {
	text, err := Decode([]byte("H\xf8yde 12\n"))
	require.NoError(t, err)
	assert.Equal(t, "Høyde 12\n", text)

	text, err = Decode([]byte("\xef\xbb\xbfHøyde"))
	require.NoError(t, err)
	assert.Equal(t, "Høyde", text)
}

func TestParseNYL_Latin1(t *testing.T) {
	points, err := ParseNYL(strings.NewReader("Lengdeprofil for veg \xe6\xf8\xe5\n0 10\n50 11\n"))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 11.0, points[1].Elevation)
}
