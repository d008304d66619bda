package stateid

import "github.com/sells-group/statespend/internal/model"

// Census Bureau regions.
const (
	Northeast = "Northeast"
	Midwest   = "Midwest"
	South     = "South"
	West      = "West"
)

var censusRegion = map[int]string{
	9: Northeast, 23: Northeast, 25: Northeast, 33: Northeast, 34: Northeast,
	36: Northeast, 42: Northeast, 44: Northeast, 50: Northeast,

	17: Midwest, 18: Midwest, 19: Midwest, 20: Midwest, 26: Midwest, 27: Midwest,
	29: Midwest, 31: Midwest, 38: Midwest, 39: Midwest, 46: Midwest, 55: Midwest,

	1: South, 5: South, 10: South, 11: South, 12: South, 13: South, 21: South,
	22: South, 24: South, 28: South, 37: South, 40: South, 45: South, 47: South,
	48: South, 51: South, 54: South,

	2: West, 4: West, 6: West, 8: West, 15: West, 16: West, 30: West, 32: West,
	35: West, 41: West, 49: West, 53: West, 56: West,
}

// CensusRegion returns the Census region of a state code, or "" when the
// code is not a state.
func CensusRegion(code int) string {
	return censusRegion[code]
}

// FillRegions returns a copy of obs where every observation without a region
// gets the Census region of its state. Observations for unknown states are
// copied unchanged; the wide transform reports those as lookup errors.
func (r *Registry) FillRegions(obs []model.Observation) []model.Observation {
	out := make([]model.Observation, len(obs))
	for i, o := range obs {
		if o.Region == "" {
			if code, ok := r.byName[o.State]; ok {
				o.Region = CensusRegion(code)
			}
		}
		out[i] = o
	}
	return out
}
