package wrangle

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
)

// FacetRow is one long-format value tagged with its state identifier.
type FacetRow struct {
	State string  `json:"state_name"`
	ID    int     `json:"id"`
	Model string  `json:"model"`
	Value float64 `json:"value"`
}

// FacetFrame holds the rows of one year for a chosen list of models, kept in
// long format so every model becomes one map panel.
type FacetFrame struct {
	Year   int              `json:"year"`
	Field  model.ValueField `json:"field"`
	Models []string         `json:"models"`
	Rows   []FacetRow       `json:"rows"`
}

// Facet selects the observations for year whose model is in models and
// attaches state identifiers. Every requested model must have at least one
// row and every state must be registered.
func Facet(obs []model.Observation, year int, models []string, reg *stateid.Registry, field model.ValueField) (*FacetFrame, error) {
	if len(models) == 0 {
		return nil, eris.New("wrangle: facet needs at least one model")
	}
	if field == "" {
		field = model.FieldMean
	}

	rows := model.Filter(obs, model.All(model.ForYear(year), model.ForModels(models...)))
	f := &FacetFrame{
		Year:   year,
		Field:  field,
		Models: append([]string{}, models...),
		Rows:   make([]FacetRow, 0, len(rows)),
	}

	present := make(map[string]bool, len(models))
	for _, o := range rows {
		id, err := reg.Lookup(o.State)
		if err != nil {
			return nil, eris.Wrapf(err, "wrangle: facet year %d", year)
		}
		present[o.Model] = true
		f.Rows = append(f.Rows, FacetRow{State: o.State, ID: id, Model: o.Model, Value: o.Value(field)})
	}

	for _, m := range models {
		if !present[m] {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "wrangle: facet year %d: no observations for model %q", year, m)
		}
	}
	return f, nil
}

// Panel returns the values of one model keyed by state identifier.
func (f *FacetFrame) Panel(name string) map[int]float64 {
	out := make(map[int]float64)
	for _, r := range f.Rows {
		if r.Model == name {
			out[r.ID] = r.Value
		}
	}
	return out
}

// Range returns the smallest and largest value over every panel.
func (f *FacetFrame) Range() (lo, hi float64) {
	for i, r := range f.Rows {
		if i == 0 || r.Value < lo {
			lo = r.Value
		}
		if i == 0 || r.Value > hi {
			hi = r.Value
		}
	}
	return lo, hi
}
