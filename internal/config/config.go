package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/statespend/internal/aggregate"
	"github.com/sells-group/statespend/internal/dataset"
	"github.com/sells-group/statespend/internal/figure"
	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/wrangle"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Wrangle   WrangleConfig   `yaml:"wrangle" mapstructure:"wrangle"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the input files.
type DataConfig struct {
	Observations string          `yaml:"observations" mapstructure:"observations"`
	StateIDs     string          `yaml:"state_ids" mapstructure:"state_ids"` // empty = built-in FIPS table
	Boundaries   string          `yaml:"boundaries" mapstructure:"boundaries"`
	Sheet        string          `yaml:"sheet" mapstructure:"sheet"` // xlsx observations only
	Columns      dataset.Columns `yaml:"columns" mapstructure:"columns"`
}

// WrangleConfig configures the wide-format transform.
type WrangleConfig struct {
	Year            int      `yaml:"year" mapstructure:"year"`
	Field           string   `yaml:"field" mapstructure:"field"`
	TotalCategory   string   `yaml:"total_category" mapstructure:"total_category"`
	RatioCategories []string `yaml:"ratio_categories" mapstructure:"ratio_categories"`
	RatioSuffix     string   `yaml:"ratio_suffix" mapstructure:"ratio_suffix"`
	ExpectedStates  int      `yaml:"expected_states" mapstructure:"expected_states"`
}

// AggregateConfig configures regional and national aggregation.
type AggregateConfig struct {
	NationalLabel string `yaml:"national_label" mapstructure:"national_label"`
}

// RenderConfig configures figure output.
type RenderConfig struct {
	OutDir      string  `yaml:"out_dir" mapstructure:"out_dir"`
	Manifest    string  `yaml:"manifest" mapstructure:"manifest"` // empty = built-in figures
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	PanelWidth  float64 `yaml:"panel_width_in" mapstructure:"panel_width_in"`
	PanelHeight float64 `yaml:"panel_height_in" mapstructure:"panel_height_in"`
	Columns     int     `yaml:"columns" mapstructure:"columns"`
	LegendSteps int     `yaml:"legend_steps" mapstructure:"legend_steps"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STATESPEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	cols := dataset.DefaultColumns()
	wr := wrangle.DefaultOptions()
	fig := figure.DefaultOptions()
	v.SetDefault("data.observations", "data/compiled_final_results.csv")
	v.SetDefault("data.state_ids", "data/state_fips.csv")
	v.SetDefault("data.boundaries", "data/cb_2018_us_state_20m.shp")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.columns.region", cols.Region)
	v.SetDefault("data.columns.state", cols.State)
	v.SetDefault("data.columns.location_id", cols.LocationID)
	v.SetDefault("data.columns.year", cols.Year)
	v.SetDefault("data.columns.model", cols.Model)
	v.SetDefault("data.columns.mean", cols.Mean)
	v.SetDefault("data.columns.lower", cols.Lower)
	v.SetDefault("data.columns.upper", cols.Upper)
	v.SetDefault("data.columns.pc", cols.PerCapita)
	v.SetDefault("data.columns.population", cols.Population)
	v.SetDefault("wrangle.year", 2019)
	v.SetDefault("wrangle.field", string(wr.Field))
	v.SetDefault("wrangle.total_category", wr.TotalCategory)
	v.SetDefault("wrangle.ratio_categories", wr.RatioCategories)
	v.SetDefault("wrangle.ratio_suffix", wr.RatioSuffix)
	v.SetDefault("wrangle.expected_states", wr.ExpectedStates)
	v.SetDefault("aggregate.national_label", aggregate.DefaultOptions().NationalLabel)
	v.SetDefault("render.out_dir", ".")
	v.SetDefault("render.manifest", "")
	v.SetDefault("render.concurrency", 1)
	v.SetDefault("render.panel_width_in", float64(fig.PanelWidth/vg.Inch))
	v.SetDefault("render.panel_height_in", float64(fig.PanelHeight/vg.Inch))
	v.SetDefault("render.columns", fig.Columns)
	v.SetDefault("render.legend_steps", fig.LegendSteps)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values the transforms cannot work around.
func (c *Config) Validate() error {
	if c.Data.Observations == "" {
		return eris.New("config: data.observations is required")
	}
	if _, err := model.ParseValueField(c.Wrangle.Field); err != nil {
		return eris.Wrap(err, "config: wrangle.field")
	}
	if c.Wrangle.TotalCategory == "" {
		return eris.New("config: wrangle.total_category is required")
	}
	if c.Wrangle.ExpectedStates < 0 {
		return eris.Errorf("config: wrangle.expected_states must be >= 0, got %d", c.Wrangle.ExpectedStates)
	}
	if c.Render.Concurrency < 1 {
		return eris.Errorf("config: render.concurrency must be >= 1, got %d", c.Render.Concurrency)
	}
	if c.Render.PanelWidth <= 0 || c.Render.PanelHeight <= 0 {
		return eris.New("config: render panel size must be positive")
	}
	return nil
}

// DatasetOptions returns the observation reader settings.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		Columns: c.Data.Columns,
		Field:   model.ValueField(c.Wrangle.Field),
		CSV:     dataset.CSVOptions{TrimSpace: true},
		XLSX:    dataset.XLSXOptions{SheetName: c.Data.Sheet},
	}
}

// WrangleOptions returns the wide-format transform settings.
func (c *Config) WrangleOptions() wrangle.Options {
	return wrangle.Options{
		Field:           model.ValueField(c.Wrangle.Field),
		TotalCategory:   c.Wrangle.TotalCategory,
		RatioCategories: c.Wrangle.RatioCategories,
		RatioSuffix:     c.Wrangle.RatioSuffix,
		ExpectedStates:  c.Wrangle.ExpectedStates,
	}
}

// AggregateOptions returns the aggregation settings.
func (c *Config) AggregateOptions() aggregate.Options {
	return aggregate.Options{
		Field:          model.ValueField(c.Wrangle.Field),
		NationalLabel:  c.Aggregate.NationalLabel,
		ExpectedStates: c.Wrangle.ExpectedStates,
	}
}

// FigureOptions returns the figure geometry.
func (c *Config) FigureOptions() figure.Options {
	return figure.Options{
		PanelWidth:  vg.Length(c.Render.PanelWidth) * vg.Inch,
		PanelHeight: vg.Length(c.Render.PanelHeight) * vg.Inch,
		Columns:     c.Render.Columns,
		LegendSteps: c.Render.LegendSteps,
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
