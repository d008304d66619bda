package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/model"
)

// Columns maps observation fields to header names in the input file.
type Columns struct {
	Region     string `yaml:"region" mapstructure:"region"`
	State      string `yaml:"state" mapstructure:"state"`
	LocationID string `yaml:"location_id" mapstructure:"location_id"`
	Year       string `yaml:"year" mapstructure:"year"`
	Model      string `yaml:"model" mapstructure:"model"`
	Mean       string `yaml:"mean" mapstructure:"mean"`
	Lower      string `yaml:"lower" mapstructure:"lower"`
	Upper      string `yaml:"upper" mapstructure:"upper"`
	PerCapita  string `yaml:"pc" mapstructure:"pc"`
	Population string `yaml:"population" mapstructure:"population"`
}

// DefaultColumns matches the header of compiled_final_results.csv.
func DefaultColumns() Columns {
	return Columns{
		Region:     "region",
		State:      "state_name",
		LocationID: "location_id",
		Year:       "year_id",
		Model:      "model",
		Mean:       "mean",
		Lower:      "lower",
		Upper:      "upper",
		PerCapita:  "pc",
		Population: "population",
	}
}

// Options configures LoadObservations.
type Options struct {
	Columns Columns
	Field   model.ValueField // the value column that must be present
	CSV     CSVOptions
	XLSX    XLSXOptions
}

// LoadObservations reads every observation from path. Files ending in .xlsx
// are read as workbooks; anything else as delimited text.
func LoadObservations(ctx context.Context, path string, opts Options) ([]model.Observation, error) {
	var (
		header []string
		rows   []Record
		err    error
	)

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		header, rows, err = ReadXLSX(path, opts.XLSX)
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, eris.Wrapf(openErr, "dataset: open %s", path)
		}
		defer func() { _ = f.Close() }()
		header, rows, err = ReadCSV(ctx, f, opts.CSV)
	}
	if err != nil {
		return nil, err
	}

	obs, err := ParseObservations(header, rows, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: parse %s", path)
	}

	zap.L().Info("dataset: loaded observations",
		zap.String("path", path),
		zap.Int("rows", len(obs)),
	)
	return obs, nil
}

// ParseObservations converts raw records to observations using the header to
// locate columns. The state, year, model and selected value columns are
// required; every other column is optional and left zero when absent.
func ParseObservations(header []string, rows []Record, opts Options) ([]model.Observation, error) {
	cols := opts.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	field := opts.Field
	if field == "" {
		field = model.FieldMean
	}

	idx := headerIndex(header)
	required := []string{cols.State, cols.Year, cols.Model}
	if field == model.FieldPerCapita {
		required = append(required, cols.PerCapita)
	} else {
		required = append(required, cols.Mean)
	}
	for _, name := range required {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			return nil, eris.Errorf("dataset: missing required column %q", name)
		}
	}

	p := rowParser{idx: idx}
	obs := make([]model.Observation, 0, len(rows))
	for _, rec := range rows {
		p.rec = rec
		o := model.Observation{
			Region:     p.text(cols.Region),
			State:      p.text(cols.State),
			LocationID: p.integer(cols.LocationID),
			Year:       p.integer(cols.Year),
			Model:      p.text(cols.Model),
			Mean:       p.number(cols.Mean),
			Lower:      p.number(cols.Lower),
			Upper:      p.number(cols.Upper),
			PerCapita:  p.number(cols.PerCapita),
			Population: p.number(cols.Population),
		}
		if p.err != nil {
			return nil, p.err
		}
		if o.State == "" || o.Model == "" {
			return nil, eris.Errorf("dataset: line %d: empty state or model", rec.Line)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Spreadsheet exports sometimes carry a BOM on the first cell.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[strings.ToLower(h)] = i
	}
	return idx
}

// rowParser extracts typed cells from one record, keeping the first error.
type rowParser struct {
	idx map[string]int
	rec Record
	err error
}

func (p *rowParser) cell(name string) string {
	if name == "" {
		return ""
	}
	i, ok := p.idx[strings.ToLower(name)]
	if !ok || i >= len(p.rec.Fields) {
		return ""
	}
	return strings.TrimSpace(p.rec.Fields[i])
}

func (p *rowParser) text(name string) string {
	return p.cell(name)
}

func (p *rowParser) integer(name string) int {
	s := p.cell(name)
	if s == "" || p.err != nil {
		return 0
	}
	// Years and ids written by spreadsheet tools can come back as "2019.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		p.err = eris.Errorf("dataset: line %d: column %q: invalid integer %q", p.rec.Line, name, s)
		return 0
	}
	return int(f)
}

func (p *rowParser) number(name string) float64 {
	s := p.cell(name)
	if s == "" || p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = eris.Wrapf(err, "dataset: line %d: column %q", p.rec.Line, name)
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		p.err = eris.Errorf("dataset: line %d: column %q: value %q is not finite", p.rec.Line, name, s)
		return 0
	}
	return f
}
