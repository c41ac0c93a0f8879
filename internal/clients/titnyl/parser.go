package titnyl

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dpup/titnyl/internal/lib/alignment"
)

// recordTag starts both lines of a TIT element record
const recordTag = "10"

// DuplicateStationTolerance merges NYL points whose stations differ by less than this
const DuplicateStationTolerance = 1e-3

// TIT line 2 fixed columns, counted from the start of the trimmed line
var titColumns = [5][2]int{
	{2, 13},  // start northing
	{13, 24}, // start easting
	{24, 35}, // end northing
	{35, 46}, // end easting
	{46, 57}, // end station
}

// ParseTIT reads horizontal element records. Each element is a pair of lines that both begin with
// the record tag: the first holds whitespace-separated `10 seq station startRadius endRadius A`,
// the second holds fixed-width coordinates and the end station. Pairs that do not parse are
// skipped.
func ParseTIT(r io.Reader) ([]alignment.HorizontalElement, error) {
	text, err := readText(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var elements []alignment.HorizontalElement
	for i := 0; i < len(lines); {
		fields := strings.Fields(lines[i])
		if len(fields) < 6 || fields[0] != recordTag {
			i++
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		second := strings.TrimSpace(lines[i+1])
		if !strings.HasPrefix(second, recordTag) {
			i++
			continue
		}

		el, ok := parseElement(fields, second)
		if !ok {
			i++
			continue
		}
		el.Index = len(elements)
		elements = append(elements, el)
		i += 2
	}
	return elements, nil
}

func parseElement(fields []string, second string) (alignment.HorizontalElement, bool) {
	head, ok := parseFloats(fields[1:6])
	if !ok {
		return alignment.HorizontalElement{}, false
	}
	cols := make([]string, len(titColumns))
	for i, c := range titColumns {
		cols[i] = column(second, c[0], c[1])
	}
	tail, ok := parseFloats(cols)
	if !ok {
		return alignment.HorizontalElement{}, false
	}
	// head[0] is the sequence number and head[4] the clothoid parameter; neither is needed
	// because curvature varies linearly between the radii over the element length
	return alignment.HorizontalElement{
		StartStation: head[1],
		StartRadius:  head[2],
		EndRadius:    head[3],
		StartN:       tail[0],
		StartE:       tail[1],
		EndN:         tail[2],
		EndE:         tail[3],
		EndStation:   tail[4],
	}, true
}

// ParseNYL reads `station elevation [radius]` lines. Lines without two numeric fields are
// skipped. Points are returned sorted by station; points closer than DuplicateStationTolerance
// collapse to the last one read.
func ParseNYL(r io.Reader) ([]alignment.VerticalPoint, error) {
	text, err := readText(r)
	if err != nil {
		return nil, err
	}

	var points []alignment.VerticalPoint
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		values, ok := parseFloats(fields[:2])
		if !ok {
			continue
		}
		p := alignment.VerticalPoint{Index: len(points), Station: values[0], Elevation: values[1]}
		if len(fields) >= 3 {
			if radius, err := strconv.ParseFloat(fields[2], 64); err == nil && radius != 0 && isFinite(radius) {
				p.CurveRadius = &radius
			}
		}
		points = append(points, p)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Station < points[j].Station
	})

	var unique []alignment.VerticalPoint
	for i := 0; i < len(points); {
		j := i + 1
		for j < len(points) && math.Abs(points[j].Station-points[i].Station) < DuplicateStationTolerance {
			j++
		}
		unique = append(unique, points[j-1])
		i = j
	}
	return unique, nil
}

func parseFloats(fields []string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || !isFinite(v) {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
