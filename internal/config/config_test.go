package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/statespend/internal/model"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/compiled_final_results.csv", cfg.Data.Observations)
	assert.Equal(t, "data/state_fips.csv", cfg.Data.StateIDs)
	assert.Equal(t, "data/cb_2018_us_state_20m.shp", cfg.Data.Boundaries)
	assert.Equal(t, "state_name", cfg.Data.Columns.State)
	assert.Equal(t, "year_id", cfg.Data.Columns.Year)
	assert.Equal(t, "pc", cfg.Data.Columns.PerCapita)
	assert.Equal(t, 2019, cfg.Wrangle.Year)
	assert.Equal(t, "mean", cfg.Wrangle.Field)
	assert.Equal(t, "Aggregate", cfg.Wrangle.TotalCategory)
	assert.Equal(t, []string{"Medicare", "Medicaid", "Private", "OOP"}, cfg.Wrangle.RatioCategories)
	assert.Equal(t, "_per_total", cfg.Wrangle.RatioSuffix)
	assert.Equal(t, 51, cfg.Wrangle.ExpectedStates)
	assert.Equal(t, "UNITED STATES", cfg.Aggregate.NationalLabel)
	assert.Equal(t, ".", cfg.Render.OutDir)
	assert.Equal(t, 1, cfg.Render.Concurrency)
	assert.InDelta(t, 5.0, cfg.Render.PanelWidth, 1e-9)
	assert.InDelta(t, 3.0, cfg.Render.PanelHeight, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
data:
  observations: results.xlsx
  sheet: estimates
  columns:
    state: location_name
wrangle:
  year: 2014
  field: pc
  ratio_categories: [Medicare, OOP]
render:
  concurrency: 4
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "results.xlsx", cfg.Data.Observations)
	assert.Equal(t, "estimates", cfg.Data.Sheet)
	assert.Equal(t, "location_name", cfg.Data.Columns.State)
	assert.Equal(t, 2014, cfg.Wrangle.Year)
	assert.Equal(t, "pc", cfg.Wrangle.Field)
	assert.Equal(t, []string{"Medicare", "OOP"}, cfg.Wrangle.RatioCategories)
	assert.Equal(t, 4, cfg.Render.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "year_id", cfg.Data.Columns.Year)
	assert.Equal(t, "Aggregate", cfg.Wrangle.TotalCategory)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("wrangle:\n  year: 2014\n"), 0o644))
	t.Setenv("STATESPEND_WRANGLE_YEAR", "2017")
	t.Setenv("STATESPEND_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2017, cfg.Wrangle.Year)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("wrangle: [\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdirTemp(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no observations", func(c *Config) { c.Data.Observations = "" }},
		{"bad field", func(c *Config) { c.Wrangle.Field = "median" }},
		{"no total", func(c *Config) { c.Wrangle.TotalCategory = "" }},
		{"negative states", func(c *Config) { c.Wrangle.ExpectedStates = -1 }},
		{"zero concurrency", func(c *Config) { c.Render.Concurrency = 0 }},
		{"zero panel", func(c *Config) { c.Render.PanelHeight = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOptionConversions(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Wrangle.Field = "pc"
	cfg.Data.Sheet = "Sheet2"

	ds := cfg.DatasetOptions()
	assert.Equal(t, model.FieldPerCapita, ds.Field)
	assert.Equal(t, "Sheet2", ds.XLSX.SheetName)
	assert.Equal(t, "state_name", ds.Columns.State)

	wr := cfg.WrangleOptions()
	assert.Equal(t, model.FieldPerCapita, wr.Field)
	assert.Equal(t, 51, wr.ExpectedStates)

	ag := cfg.AggregateOptions()
	assert.Equal(t, model.FieldPerCapita, ag.Field)
	assert.Equal(t, "UNITED STATES", ag.NationalLabel)
	assert.Equal(t, 51, ag.ExpectedStates)

	fo := cfg.FigureOptions()
	assert.Equal(t, 5*vg.Inch, fo.PanelWidth)
	assert.Equal(t, 3*vg.Inch, fo.PanelHeight)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
