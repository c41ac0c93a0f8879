package crs

import (
	"sort"

	"github.com/paulmach/orb"
)

// Detector searches a candidate table for the reference system and axis order of raw coordinates.
// It memoizes parsed projections and is not safe for concurrent use.
type Detector struct {
	table        Table
	transformers map[int]*Transformer
}

// NewDetector creates a detector over an immutable candidate table
func NewDetector(table Table) *Detector {
	return &Detector{table: table, transformers: make(map[int]*Transformer)}
}

// Table returns the candidate table the detector searches
func (d *Detector) Table() Table {
	return d.table
}

// Detect tests every (candidate, axis order) pair for a sample stored as (first, second).
// The stored order is tried first, then the swapped one. The first pair whose geographic
// position falls inside the table bounds wins.
func (d *Detector) Detect(first, second float64) (Detection, error) {
	configs := []struct {
		n, e float64
		axis AxisOrder
	}{
		{first, second, NorthEast},
		{second, first, EastNorth},
	}

	var attempts []Attempt
	for _, cfg := range configs {
		for _, c := range d.ordered(cfg.e) {
			attempt := Attempt{Code: c.Code, Axis: cfg.axis}
			t, err := d.transformer(c)
			if err == nil {
				attempt.Longitude, attempt.Latitude, err = t.ToGeographic(cfg.e, cfg.n)
			}
			attempt.Err = err
			attempts = append(attempts, attempt)
			if err != nil {
				continue
			}
			if d.table.Bounds.Contains(orb.Point{attempt.Longitude, attempt.Latitude}) {
				return Detection{
					Candidate: c,
					Axis:      cfg.axis,
					Longitude: attempt.Longitude,
					Latitude:  attempt.Latitude,
				}, nil
			}
		}
	}
	return Detection{}, &DetectionError{Attempts: attempts}
}

// ordered puts UTM-like candidates first for large eastings and NTM first otherwise,
// keeping table order within each group.
func (d *Detector) ordered(easting float64) []Candidate {
	utmFirst := easting > d.table.UTMEastingThreshold
	out := make([]Candidate, len(d.table.Candidates))
	copy(out, d.table.Candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i], utmFirst) < rank(out[j], utmFirst)
	})
	return out
}

func rank(c Candidate, utmFirst bool) int {
	isNTM := c.Family == NTM
	if isNTM == utmFirst {
		return 1
	}
	return 0
}

// Transformer returns the transformer for a detected candidate
func (d *Detector) Transformer(c Candidate) (*Transformer, error) {
	return d.transformer(c)
}

func (d *Detector) transformer(c Candidate) (*Transformer, error) {
	if t, ok := d.transformers[c.Code]; ok {
		return t, nil
	}
	t, err := NewTransformer(c)
	if err != nil {
		return nil, err
	}
	d.transformers[c.Code] = t
	return t, nil
}
