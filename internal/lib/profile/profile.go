package profile

import "sort"

// SegmentKind distinguishes straight grades from vertical curves
type SegmentKind string

const (
	Linear    SegmentKind = "linear"
	Parabolic SegmentKind = "parabolic"
)

// Segment is one piece of the profile over the station domain [S0, S1).
// Elevation at distance x = s - S0 is Z0 + Grade*x + Curvature*x².
type Segment struct {
	Kind      SegmentKind `json:"kind"`
	S0        float64     `json:"s0"`
	S1        float64     `json:"s1"`
	Z0        float64     `json:"z0"`
	Grade     float64     `json:"grade"`
	Curvature float64     `json:"curvature"`
}

// Elevation evaluates the segment at station s
func (g Segment) Elevation(s float64) float64 {
	x := s - g.S0
	return g.Z0 + g.Grade*x + g.Curvature*x*x
}

// Slope evaluates dz/ds at station s
func (g Segment) Slope(s float64) float64 {
	return g.Grade + 2*g.Curvature*(s-g.S0)
}

// Length returns the station length of the segment
func (g Segment) Length() float64 {
	return g.S1 - g.S0
}

// Profile maps station to elevation through ordered, non-overlapping segments
type Profile struct {
	segments []Segment
}

// Segments returns a copy of the profile segments in station order
func (p *Profile) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Domain returns the first and last covered station
func (p *Profile) Domain() (float64, float64) {
	if len(p.segments) == 0 {
		return 0, 0
	}
	return p.segments[0].S0, p.segments[len(p.segments)-1].S1
}

// Elevation returns z at station s; outside the covered range the nearest endpoint value is used
func (p *Profile) Elevation(s float64) float64 {
	seg, at := p.locate(s)
	return seg.Elevation(at)
}

// Grade returns dz/ds at station s; 0 outside the covered range
func (p *Profile) Grade(s float64) float64 {
	first, last := p.Domain()
	if s < first || s > last {
		return 0
	}
	seg, at := p.locate(s)
	return seg.Slope(at)
}

func (p *Profile) locate(s float64) (Segment, float64) {
	segs := p.segments
	if s <= segs[0].S0 {
		return segs[0], segs[0].S0
	}
	last := segs[len(segs)-1]
	if s >= last.S1 {
		return last, last.S1
	}
	i := sort.Search(len(segs), func(i int) bool { return segs[i].S1 > s })
	return segs[i], s
}
