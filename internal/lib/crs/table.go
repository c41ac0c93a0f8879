package crs

import (
	"fmt"

	"github.com/paulmach/orb"
)

// etrs89 shares its parameters with the geographic target so no datum shift is applied
const etrs89 = "+ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs"

// NorwayBounds is the national region used to validate detections: 4 to 32°E, 57 to 72°N
func NorwayBounds() orb.Bound {
	return orb.Bound{Min: orb.Point{4, 57}, Max: orb.Point{32, 72}}
}

// UTMZone returns the ETRS89 / UTM candidate for a northern zone (EPSG 25800+zone)
func UTMZone(zone int) Candidate {
	return Candidate{
		Code:   25800 + zone,
		Family: UTM,
		Zone:   zone,
		Name:   fmt.Sprintf("ETRS89 / UTM zone %dN", zone),
		Definition: fmt.Sprintf("+proj=tmerc +lat_0=0 +lon_0=%d +k=0.9996 +x_0=500000 +y_0=0 %s",
			zone*6-183, etrs89),
	}
}

// NTMZone returns the ETRS89 / NTM candidate for a Norwegian zone (EPSG 5100+zone)
func NTMZone(zone int) Candidate {
	return Candidate{
		Code:   5100 + zone,
		Family: NTM,
		Zone:   zone,
		Name:   fmt.Sprintf("ETRS89 / NTM zone %d", zone),
		Definition: fmt.Sprintf("+proj=tmerc +lat_0=58 +lon_0=%d.5 +k=1 +x_0=100000 +y_0=1000000 %s",
			zone, etrs89),
	}
}

// DefaultTable returns the Norwegian candidate set: UTM 32 to 35 then 31, NTM 5 to 30, and
// UTM 33 + NN2000 whose horizontal part is UTM 33.
func DefaultTable() Table {
	var candidates []Candidate
	for _, zone := range []int{32, 33, 34, 35, 31} {
		candidates = append(candidates, UTMZone(zone))
	}
	for zone := 5; zone <= 30; zone++ {
		candidates = append(candidates, NTMZone(zone))
	}
	nn2000 := UTMZone(33)
	nn2000.Code = 5973
	nn2000.Family = Compound
	nn2000.Name = "ETRS89 / UTM zone 33 + NN2000 height"
	candidates = append(candidates, nn2000)

	return Table{
		Candidates:          candidates,
		Bounds:              NorwayBounds(),
		UTMEastingThreshold: 200000,
	}
}
