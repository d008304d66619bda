package figure

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/statespend/internal/aggregate"
	"github.com/sells-group/statespend/internal/boundary"
	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
	"github.com/sells-group/statespend/internal/wrangle"
)

// Builder turns manifest entries into files. Its fields are read-only once
// building starts, so one Builder can serve concurrent figures.
type Builder struct {
	Observations []model.Observation
	Registry     *stateid.Registry
	Shapes       *boundary.Set // required by map figures only
	Wide         wrangle.Options
	Aggregate    aggregate.Options
	Year         int
	OutDir       string
	Options      Options
}

// NeedsShapes reports whether any figure in m draws a map.
func NeedsShapes(m *Manifest) bool {
	for _, f := range m.Figures {
		if f.Kind == KindMaps || f.Kind == KindFacet {
			return true
		}
	}
	return false
}

// Build produces one figure and returns the path written.
func (b *Builder) Build(ctx context.Context, f Figure) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "figure: context cancelled")
	}

	out := f.Output
	if !filepath.IsAbs(out) && b.OutDir != "" {
		out = filepath.Join(b.OutDir, out)
	}
	year := f.Year
	if year == 0 {
		year = b.Year
	}
	opts := b.Options
	if f.Title != "" {
		opts.Title = f.Title
	}
	if f.Columns > 0 {
		opts.Columns = f.Columns
	}

	switch f.Kind {
	case KindMaps:
		table, err := wrangle.Pivot(b.Observations, year, b.Registry, b.Wide)
		if err != nil {
			return "", err
		}
		return out, Maps(table, f.Models, b.Shapes, out, opts)

	case KindFacet:
		frame, err := wrangle.Facet(b.Observations, year, f.Models, b.Registry, b.Wide.Field)
		if err != nil {
			return "", err
		}
		return out, FacetMaps(frame, b.Shapes, out, opts)

	case KindStackedBar:
		obs := b.Observations
		shareYear := f.Year
		if f.Regions {
			var err error
			if obs, err = aggregate.Append(obs, year, b.Aggregate); err != nil {
				return "", err
			}
			shareYear = year
		}
		stack, err := aggregate.Shares(obs, f.Models, b.Wide.Field, shareYear)
		if err != nil {
			return "", err
		}
		return out, StackedBar(stack, out, opts)

	default:
		return "", eris.Errorf("figure: unknown kind %q", f.Kind)
	}
}

// BuildAll produces every figure of m, at most concurrency at a time. The
// first failure cancels figures that have not started.
func (b *Builder) BuildAll(ctx context.Context, m *Manifest, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, f := range m.Figures {
		f := f
		g.Go(func() error {
			path, err := b.Build(gctx, f)
			if err != nil {
				return eris.Wrapf(err, "figure: %s", f.Name)
			}
			zap.L().Info("figure: built", zap.String("name", f.Name), zap.String("path", path))
			return nil
		})
	}
	return g.Wait()
}
