package wrangle

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
)

// Options configures the wide-format transform.
type Options struct {
	Field           model.ValueField // column read from each observation
	TotalCategory   string           // denominator of every ratio column
	RatioCategories []string         // categories that get a ratio column
	RatioSuffix     string           // appended to a category to name its ratio
	ExpectedStates  int              // 0 disables the state count check
}

// DefaultOptions reproduces the paper's payer-share maps.
func DefaultOptions() Options {
	return Options{
		Field:           model.FieldMean,
		TotalCategory:   "Aggregate",
		RatioCategories: []string{"Medicare", "Medicaid", "Private", "OOP"},
		RatioSuffix:     "_per_total",
		ExpectedStates:  51,
	}
}

func (o Options) withDefaults() Options {
	if o.Field == "" {
		o.Field = model.FieldMean
	}
	if o.RatioSuffix == "" {
		o.RatioSuffix = "_per_total"
	}
	return o
}

// RatioColumn names the ratio column derived from category.
func (o Options) RatioColumn(category string) string {
	return category + o.withDefaults().RatioSuffix
}

// WideRow is one state with a value per column.
type WideRow struct {
	State  string             `json:"state_name"`
	ID     int                `json:"id"`
	Values map[string]float64 `json:"values"`
}

// WideTable has one row per state and one column per category followed by
// the ratio columns.
type WideTable struct {
	Year    int              `json:"year"`
	Field   model.ValueField `json:"field"`
	Columns []string         `json:"columns"`
	Rows    []WideRow        `json:"rows"`
}

// Pivot turns the observations for year into a WideTable. It runs Validate
// first and produces nothing unless every check passes.
func Pivot(obs []model.Observation, year int, reg *stateid.Registry, opts Options) (*WideTable, error) {
	opts = opts.withDefaults()
	g, err := validate(obs, year, reg, opts)
	if err != nil {
		return nil, err
	}

	t := &WideTable{
		Year:    year,
		Field:   opts.Field,
		Columns: append([]string{}, g.categories...),
		Rows:    make([]WideRow, 0, len(g.states)),
	}
	for _, c := range opts.RatioCategories {
		t.Columns = append(t.Columns, opts.RatioColumn(c))
	}

	for _, s := range g.states {
		id, err := reg.Lookup(s)
		if err != nil {
			return nil, err
		}
		row := WideRow{State: s, ID: id, Values: make(map[string]float64, len(t.Columns))}
		for _, c := range g.categories {
			row.Values[c] = g.values[cell{s, c}]
		}
		total := g.values[cell{s, opts.TotalCategory}]
		for _, c := range opts.RatioCategories {
			row.Values[opts.RatioColumn(c)] = g.values[cell{s, c}] / total
		}
		t.Rows = append(t.Rows, row)
	}

	if err := invariant(len(t.Rows) == len(g.states), "pivot produced %d rows for %d states", len(t.Rows), len(g.states)); err != nil {
		return nil, err
	}

	zap.L().Debug("wrangle: pivoted observations",
		zap.Int("year", year),
		zap.Int("states", len(t.Rows)),
		zap.Strings("columns", t.Columns),
	)
	return t, nil
}

// HasColumn reports whether name is a column of t.
func (t *WideTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *WideTable) Column(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, eris.Errorf("wrangle: no column %q (have %v)", name, t.Columns)
	}
	vals := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = r.Values[name]
	}
	return vals, nil
}

// ByID returns the values of one column keyed by state identifier.
func (t *WideTable) ByID(name string) (map[int]float64, error) {
	if !t.HasColumn(name) {
		return nil, eris.Errorf("wrangle: no column %q (have %v)", name, t.Columns)
	}
	out := make(map[int]float64, len(t.Rows))
	for _, r := range t.Rows {
		out[r.ID] = r.Values[name]
	}
	return out, nil
}

// Value returns one cell.
func (t *WideTable) Value(state, column string) (float64, bool) {
	for _, r := range t.Rows {
		if r.State == state {
			v, ok := r.Values[column]
			return v, ok
		}
	}
	return 0, false
}

// IDs returns the state identifiers in row order.
func (t *WideTable) IDs() []int {
	ids := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		ids[i] = r.ID
	}
	return ids
}
