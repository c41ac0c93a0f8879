package alignment

import "github.com/paulmach/orb/planar"

// Endpoints builds a coarse alignment from declared coordinates only: the first element's start,
// then each element's end. When consecutive elements do not touch, the next element's declared
// start is inserted so the polyline follows the record stream.
func Endpoints(elements []HorizontalElement, tolerance float64) (Alignment, error) {
	if len(elements) == 0 {
		return Alignment{}, structuralf(RecordHorizontal, 0, "no horizontal elements")
	}
	if err := CheckContinuity(elements, tolerance); err != nil {
		return Alignment{}, err
	}

	first := elements[0]
	samples := []Sample{{Station: first.StartStation, E: first.StartE, N: first.StartN}}
	for i, el := range elements {
		samples = append(samples, Sample{Station: el.EndStation, E: el.EndE, N: el.EndN})
		if i == len(elements)-1 {
			break
		}
		next := elements[i+1]
		if planar.Distance(el.End(), next.Start()) > CoordinateGapTolerance {
			samples = append(samples, Sample{Station: next.StartStation, E: next.StartE, N: next.StartN})
		}
	}
	return Alignment{Samples: samples}, nil
}
