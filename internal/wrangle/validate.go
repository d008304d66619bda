// Package wrangle reshapes long-format observations into the per-state tables
// the map figures are drawn from.
package wrangle

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
)

// Issue is one problem found by Validate.
type Issue struct {
	Kind     error // model.ErrDataIntegrity, model.ErrLookup or model.ErrArithmetic
	State    string
	Category string
	Detail   string
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Kind.Error())
	if i.State != "" {
		fmt.Fprintf(&b, " [%s", i.State)
		if i.Category != "" {
			fmt.Fprintf(&b, "/%s", i.Category)
		}
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(i.Detail)
	return b.String()
}

// ValidationError collects every issue found for one year. It matches each
// distinct issue kind under eris.Is and errors.Is.
type ValidationError struct {
	Year   int
	Issues []Issue
}

const maxReportedIssues = 5

func (e *ValidationError) Error() string {
	parts := make([]string, 0, maxReportedIssues)
	for i, is := range e.Issues {
		if i == maxReportedIssues {
			parts = append(parts, fmt.Sprintf("and %d more", len(e.Issues)-i))
			break
		}
		parts = append(parts, is.String())
	}
	return fmt.Sprintf("wrangle: year %d: %d validation issue(s): %s", e.Year, len(e.Issues), strings.Join(parts, "; "))
}

// Is reports whether any issue has the target kind.
func (e *ValidationError) Is(target error) bool {
	for _, is := range e.Issues {
		if is.Kind == target {
			return true
		}
	}
	return false
}

// Unwrap returns the kind of the first issue.
func (e *ValidationError) Unwrap() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e.Issues[0].Kind
}

type cell struct {
	state, category string
}

// grid indexes the rows of one year by state and category.
type grid struct {
	states     []string
	categories []string
	counts     map[cell]int
	values     map[cell]float64
}

func survey(rows []model.Observation, field model.ValueField) *grid {
	g := &grid{
		states:     model.Distinct(rows, model.StateOf),
		categories: model.Distinct(rows, model.ModelOf),
		counts:     make(map[cell]int, len(rows)),
		values:     make(map[cell]float64, len(rows)),
	}
	for _, o := range rows {
		k := cell{o.State, o.Model}
		g.counts[k]++
		g.values[k] = o.Value(field)
	}
	return g
}

func (g *grid) hasCategory(c string) bool {
	for _, x := range g.categories {
		if x == c {
			return true
		}
	}
	return false
}

// Validate checks that the observations for year can be pivoted: the state
// count matches opts.ExpectedStates, every state has exactly one row per
// category, every state is registered, the ratio and total categories exist,
// no ratio column name is already a category and no total is zero. It
// returns nil or a *ValidationError.
func Validate(obs []model.Observation, year int, reg *stateid.Registry, opts Options) error {
	_, err := validate(obs, year, reg, opts)
	return err
}

func validate(obs []model.Observation, year int, reg *stateid.Registry, opts Options) (*grid, error) {
	opts = opts.withDefaults()
	rows := model.Filter(obs, model.ForYear(year))
	g := survey(rows, opts.Field)

	var issues []Issue
	add := func(kind error, state, category, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, State: state, Category: category, Detail: fmt.Sprintf(format, args...)})
	}

	if len(rows) == 0 {
		add(model.ErrDataIntegrity, "", "", "no observations")
		return nil, &ValidationError{Year: year, Issues: issues}
	}

	if opts.ExpectedStates > 0 && len(g.states) != opts.ExpectedStates {
		add(model.ErrDataIntegrity, "", "", "found %d states, expected %d", len(g.states), opts.ExpectedStates)
	}

	needed := append([]string{}, opts.RatioCategories...)
	if len(needed) > 0 {
		needed = append(needed, opts.TotalCategory)
	}
	for _, c := range needed {
		if !g.hasCategory(c) {
			add(model.ErrDataIntegrity, "", c, "category %q required for ratios is absent", c)
		}
	}

	for _, c := range opts.RatioCategories {
		if col := opts.RatioColumn(c); g.hasCategory(col) {
			add(model.ErrDataIntegrity, "", col, "ratio column %q collides with an input category", col)
		}
	}

	for _, s := range g.states {
		if reg == nil {
			add(model.ErrLookup, s, "", "no state registry")
		} else if _, err := reg.Lookup(s); err != nil {
			add(model.ErrLookup, s, "", "state not in identifier table")
		}
		for _, c := range g.categories {
			if n := g.counts[cell{s, c}]; n != 1 {
				add(model.ErrDataIntegrity, s, c, "duplicate or missing observation (%d rows)", n)
			}
		}
		if len(opts.RatioCategories) > 0 {
			k := cell{s, opts.TotalCategory}
			if g.counts[k] == 1 && g.values[k] == 0 {
				add(model.ErrArithmetic, s, opts.TotalCategory, "total is zero, ratios undefined")
			}
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Year: year, Issues: issues}
	}
	return g, nil
}

// invariant guards a post-condition of the pivot.
func invariant(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return eris.Wrap(model.ErrDataIntegrity, "wrangle: "+fmt.Sprintf(format, args...))
}
