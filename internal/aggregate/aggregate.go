// Package aggregate derives population-weighted regional and national rows
// and the category shares drawn by the stacked bar figures.
package aggregate

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/statespend/internal/model"
)

// Options configures Compute.
type Options struct {
	Field          model.ValueField
	NationalLabel  string
	ExpectedStates int // size of the full state set; 0 disables the region size check
}

// DefaultOptions weights the mean estimate, labels the nation "UNITED STATES"
// and expects 51 states.
func DefaultOptions() Options {
	return Options{Field: model.FieldMean, NationalLabel: "UNITED STATES", ExpectedStates: 51}
}

type group struct {
	label string
	rows  []model.Observation
}

// Compute returns one synthetic observation per (group, category) for year,
// where the groups are the regions in first-seen order followed by the
// nation. The value is sum(pop*value)/sum(pop) over the member rows of that
// category and the population is sum(pop). A group whose population sums to
// zero is an arithmetic error; a region holding opts.ExpectedStates or more
// states, or a row without a region, is a data-integrity error.
func Compute(obs []model.Observation, year int, opts Options) ([]model.Observation, error) {
	if opts.Field == "" {
		opts.Field = model.FieldMean
	}
	if opts.NationalLabel == "" {
		opts.NationalLabel = DefaultOptions().NationalLabel
	}

	rows := model.Filter(obs, model.ForYear(year))
	if len(rows) == 0 {
		return nil, eris.Wrapf(model.ErrDataIntegrity, "aggregate: no observations for year %d", year)
	}
	for _, o := range rows {
		if o.Region == "" {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "aggregate: %s/%s has no region", o.State, o.Model)
		}
	}

	regions := model.Distinct(rows, regionOf)
	labels := Labels(regions, opts)

	groups := make([]group, 0, len(labels))
	for i, region := range regions {
		members := model.Filter(rows, inRegion(region))
		n := len(model.Distinct(members, model.StateOf))
		if opts.ExpectedStates > 0 && n >= opts.ExpectedStates {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"aggregate: region %q has %d of %d states, check the region join", region, n, opts.ExpectedStates)
		}
		groups = append(groups, group{label: labels[i], rows: members})
	}
	groups = append(groups, group{label: labels[len(regions)], rows: rows})

	var out []model.Observation
	for _, g := range groups {
		for _, category := range model.Distinct(g.rows, model.ModelOf) {
			members := model.Filter(g.rows, model.ForModels(category))
			value, pop, err := weightedMean(members, opts.Field)
			if err != nil {
				return nil, eris.Wrapf(err, "aggregate: %s/%s year %d", g.label, category, year)
			}
			row := model.Observation{
				Region:     g.label,
				State:      g.label,
				Year:       year,
				Model:      category,
				Population: pop,
			}
			out = append(out, row.WithValue(opts.Field, value))
		}
	}

	zap.L().Debug("aggregate: computed group rows",
		zap.Int("year", year),
		zap.Int("groups", len(groups)),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// Append returns a new slice holding obs followed by the aggregate rows for
// year. obs is not modified.
func Append(obs []model.Observation, year int, opts Options) ([]model.Observation, error) {
	agg, err := Compute(obs, year, opts)
	if err != nil {
		return nil, err
	}
	out := make([]model.Observation, 0, len(obs)+len(agg))
	out = append(out, obs...)
	return append(out, agg...), nil
}

// Labels returns the group labels Compute would emit for the given regions,
// in order, ending with the national label.
func Labels(regions []string, opts Options) []string {
	if opts.NationalLabel == "" {
		opts.NationalLabel = DefaultOptions().NationalLabel
	}
	upper := cases.Upper(language.English)
	out := make([]string, 0, len(regions)+1)
	for _, r := range regions {
		out = append(out, upper.String(r))
	}
	return append(out, opts.NationalLabel)
}

func weightedMean(rows []model.Observation, field model.ValueField) (mean, total float64, err error) {
	values := make([]float64, len(rows))
	weights := make([]float64, len(rows))
	for i, o := range rows {
		values[i] = o.Value(field)
		weights[i] = o.Population
		total += o.Population
	}
	if total == 0 {
		return 0, 0, eris.Wrap(model.ErrArithmetic, "population sums to zero")
	}
	return stat.Mean(values, weights), total, nil
}

func regionOf(o model.Observation) string { return o.Region }

func inRegion(region string) model.Predicate {
	return func(o model.Observation) bool { return o.Region == region }
}
