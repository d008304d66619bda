package aggregate

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/statespend/internal/model"
)

// Stack holds, for each label, the share of each category in the label's
// total. Shares[i][j] belongs to Labels[i] and Categories[j]; every row sums
// to 1.
type Stack struct {
	Labels     []string    `json:"labels"`
	Categories []string    `json:"categories"`
	Shares     [][]float64 `json:"shares"`
	Totals     []float64   `json:"totals"`
}

// Shares sums the selected field per (label, category) over the observations
// of year, or of every year when year is 0, and normalises each label's sums
// by their total. Labels are state names, or group labels for appended
// aggregate rows, in first-seen order. A requested category without rows is
// a data-integrity error; a label whose sums total zero is an arithmetic
// error.
func Shares(obs []model.Observation, categories []string, field model.ValueField, year int) (*Stack, error) {
	if len(categories) == 0 {
		return nil, eris.New("aggregate: shares need at least one category")
	}

	pred := model.ForModels(categories...)
	if year != 0 {
		pred = model.All(model.ForYear(year), pred)
	}
	rows := model.Filter(obs, pred)

	col := make(map[string]int, len(categories))
	for j, c := range categories {
		col[c] = j
	}

	s := &Stack{
		Labels:     model.Distinct(rows, model.StateOf),
		Categories: append([]string{}, categories...),
	}
	row := make(map[string]int, len(s.Labels))
	for i, l := range s.Labels {
		row[l] = i
	}

	sums := make([][]float64, len(s.Labels))
	for i := range sums {
		sums[i] = make([]float64, len(categories))
	}
	seen := make([]bool, len(categories))
	for _, o := range rows {
		j := col[o.Model]
		sums[row[o.State]][j] += o.Value(field)
		seen[j] = true
	}
	for j, ok := range seen {
		if !ok {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "aggregate: no observations for category %q", categories[j])
		}
	}

	s.Shares = make([][]float64, len(s.Labels))
	s.Totals = make([]float64, len(s.Labels))
	for i, l := range s.Labels {
		var total float64
		for _, v := range sums[i] {
			total += v
		}
		if total == 0 {
			return nil, eris.Wrapf(model.ErrArithmetic, "aggregate: %s: categories sum to zero", l)
		}
		s.Totals[i] = total
		s.Shares[i] = make([]float64, len(categories))
		for j, v := range sums[i] {
			s.Shares[i][j] = v / total
		}
	}
	return s, nil
}

// Column returns the shares of one category in label order.
func (s *Stack) Column(j int) []float64 {
	out := make([]float64, len(s.Labels))
	for i := range s.Labels {
		out[i] = s.Shares[i][j]
	}
	return out
}
