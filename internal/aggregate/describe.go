package aggregate

import (
	"github.com/montanaflynn/stats"
	"github.com/rotisserie/eris"

	"github.com/sells-group/statespend/internal/model"
)

// Summary describes the distribution of one category across states.
type Summary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"stddev"`
}

// Describe summarises the selected field per category for year, categories
// in first-seen order.
func Describe(obs []model.Observation, year int, field model.ValueField) ([]Summary, error) {
	rows := model.Filter(obs, model.ForYear(year))
	if len(rows) == 0 {
		return nil, eris.Wrapf(model.ErrDataIntegrity, "aggregate: no observations for year %d", year)
	}

	var out []Summary
	for _, category := range model.Distinct(rows, model.ModelOf) {
		members := model.Filter(rows, model.ForModels(category))
		data := make(stats.Float64Data, len(members))
		for i, o := range members {
			data[i] = o.Value(field)
		}

		s := Summary{Category: category, Count: len(data)}
		var err error
		if s.Min, err = data.Min(); err != nil {
			return nil, eris.Wrapf(err, "aggregate: describe %s", category)
		}
		if s.Max, err = data.Max(); err != nil {
			return nil, eris.Wrapf(err, "aggregate: describe %s", category)
		}
		if s.Mean, err = data.Mean(); err != nil {
			return nil, eris.Wrapf(err, "aggregate: describe %s", category)
		}
		if s.Median, err = data.Median(); err != nil {
			return nil, eris.Wrapf(err, "aggregate: describe %s", category)
		}
		if s.StdDev, err = data.StandardDeviation(); err != nil {
			return nil, eris.Wrapf(err, "aggregate: describe %s", category)
		}
		out = append(out, s)
	}
	return out, nil
}
