package figure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/statespend/internal/aggregate"
	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
	"github.com/sells-group/statespend/internal/wrangle"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	reg := stateid.Builtin()
	return &Builder{
		Observations: append(observations(reg, 2019), observations(reg, 2018)...),
		Registry:     reg,
		Shapes:       gridShapes(t, reg),
		Wide:         wrangle.DefaultOptions(),
		Aggregate:    aggregate.DefaultOptions(),
		Year:         2019,
		OutDir:       t.TempDir(),
		Options:      DefaultOptions(),
	}
}

func TestBuilder_Build(t *testing.T) {
	b := newBuilder(t)
	figs := []Figure{
		{Name: "maps", Kind: KindMaps, Models: []string{"Aggregate", "OOP_per_total"}, Output: "maps.png"},
		{Name: "facet", Kind: KindFacet, Models: payers, Output: "facet.png", Year: 2018},
		{Name: "bars", Kind: KindStackedBar, Models: payers, Output: "bars.png"},
		{Name: "regions", Kind: KindStackedBar, Models: payers, Output: "sub/regions.png", Regions: true},
	}
	for _, f := range figs {
		t.Run(f.Name, func(t *testing.T) {
			path, err := b.Build(context.Background(), f)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(b.OutDir, f.Output), path)
			assertWritten(t, path)
		})
	}
}

func TestBuilder_Build_PivotFailure(t *testing.T) {
	b := newBuilder(t)
	b.Observations = b.Observations[1:] // drop one cell

	_, err := b.Build(context.Background(), Figure{Name: "m", Kind: KindMaps, Models: []string{"Aggregate"}, Output: "m.png"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrDataIntegrity))
}

func TestBuilder_Build_UnknownKind(t *testing.T) {
	b := newBuilder(t)
	_, err := b.Build(context.Background(), Figure{Name: "x", Kind: "pie", Models: payers, Output: "x.png"})
	assert.Error(t, err)
}

func TestBuilder_Build_Cancelled(t *testing.T) {
	b := newBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, Figure{Name: "bars", Kind: KindStackedBar, Models: payers, Output: "bars.png"})
	assert.Error(t, err)
}

func TestBuilder_BuildAll(t *testing.T) {
	b := newBuilder(t)
	m := &Manifest{Figures: []Figure{
		{Name: "maps", Kind: KindMaps, Models: []string{"Medicare_per_total"}, Output: "maps.png"},
		{Name: "facet", Kind: KindFacet, Models: payers[:2], Output: "facet.png"},
		{Name: "bars", Kind: KindStackedBar, Models: payers, Output: "bars.svg"},
	}}

	require.NoError(t, b.BuildAll(context.Background(), m, 3))
	for _, f := range m.Figures {
		assertWritten(t, filepath.Join(b.OutDir, f.Output))
	}
}

func TestBuilder_BuildAll_ReportsFailure(t *testing.T) {
	b := newBuilder(t)
	m := &Manifest{Figures: []Figure{
		{Name: "bars", Kind: KindStackedBar, Models: payers, Output: "bars.png"},
		{Name: "broken", Kind: KindFacet, Models: []string{"Dental"}, Output: "broken.png"},
	}}

	err := b.BuildAll(context.Background(), m, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
