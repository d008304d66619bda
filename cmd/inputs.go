package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/boundary"
	"github.com/sells-group/statespend/internal/dataset"
	"github.com/sells-group/statespend/internal/figure"
	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
)

// loadRegistry reads the state id table, or uses the built-in FIPS codes
// when none is configured.
func loadRegistry(ctx context.Context) (*stateid.Registry, error) {
	if cfg.Data.StateIDs == "" {
		return stateid.Builtin(), nil
	}
	reg, err := stateid.LoadFile(ctx, cfg.Data.StateIDs)
	if err != nil {
		return nil, err
	}
	if err := reg.Expect(cfg.Wrangle.ExpectedStates); err != nil {
		return nil, err
	}
	return reg, nil
}

// loadInputs reads the registry and the observations, filling in Census
// regions for rows that have none.
func loadInputs(ctx context.Context) (*stateid.Registry, []model.Observation, error) {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, nil, err
	}
	obs, err := dataset.LoadObservations(ctx, cfg.Data.Observations, cfg.DatasetOptions())
	if err != nil {
		return nil, nil, err
	}

	zap.L().Info("inputs loaded",
		zap.String("observations", cfg.Data.Observations),
		zap.Int("rows", len(obs)),
		zap.Int("states", reg.Len()),
	)
	return reg, reg.FillRegions(obs), nil
}

func loadBoundaries(reg *stateid.Registry) (*boundary.Set, error) {
	if cfg.Data.Boundaries == "" {
		return nil, eris.New("map figures need --boundaries or data.boundaries")
	}
	return boundary.Load(cfg.Data.Boundaries, boundary.AlbersUSA(), reg.Has)
}

// newBuilder loads everything a figure needs. Boundaries are read only when
// withShapes is set.
func newBuilder(ctx context.Context, outDir string, withShapes bool) (*figure.Builder, error) {
	reg, obs, err := loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	b := &figure.Builder{
		Observations: obs,
		Registry:     reg,
		Wide:         cfg.WrangleOptions(),
		Aggregate:    cfg.AggregateOptions(),
		Year:         cfg.Wrangle.Year,
		OutDir:       outDir,
		Options:      cfg.FigureOptions(),
	}
	if withShapes {
		if b.Shapes, err = loadBoundaries(reg); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// buildOne renders a single ad hoc figure.
func buildOne(ctx context.Context, f figure.Figure) error {
	m := &figure.Manifest{Figures: []figure.Figure{f}}
	if err := m.Validate(); err != nil {
		return err
	}
	b, err := newBuilder(ctx, "", figure.NeedsShapes(m))
	if err != nil {
		return err
	}
	path, err := b.Build(ctx, f)
	if err != nil {
		return eris.Wrapf(err, "%s", f.Name)
	}
	zap.L().Info("figure written", zap.String("path", path))
	return nil
}
