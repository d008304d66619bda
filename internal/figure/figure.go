// Package figure renders the paper's charts with gonum/plot. Emitters only
// draw: every number they show comes from the wrangle and aggregate packages.
package figure

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls figure geometry.
type Options struct {
	PanelWidth  vg.Length // width of one map panel or of the bar chart
	PanelHeight vg.Length // height of one map panel; minimum bar chart height
	Columns     int       // facet grid columns
	LegendSteps int       // colour swatches per map legend
	Title       string
}

// DefaultOptions matches the published exhibit sizes (500x300 and
// 300x175 pixel panels at 100 dpi).
func DefaultOptions() Options {
	return Options{
		PanelWidth:  5 * vg.Inch,
		PanelHeight: 3 * vg.Inch,
		Columns:     2,
		LegendSteps: 5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PanelWidth <= 0 {
		o.PanelWidth = d.PanelWidth
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = d.PanelHeight
	}
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.LegendSteps <= 1 {
		o.LegendSteps = d.LegendSteps
	}
	return o
}

// Formats lists the output extensions understood by the emitters.
var Formats = []string{"png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps"}

// FormatOf returns the output format implied by path's extension.
func FormatOf(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range Formats {
		if ext == f {
			return ext, nil
		}
	}
	return "", eris.Errorf("figure: unsupported output %q (want one of %v)", path, Formats)
}

// save creates a canvas in the format implied by path, lets render draw on
// it and writes the result.
func save(path string, w, h vg.Length, render func(dc draw.Canvas) error) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return eris.Wrapf(err, "figure: create %s canvas", format)
	}
	if err := render(draw.New(c)); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "figure: create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "figure: create %s", path)
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "figure: write %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "figure: close %s", path)
	}
	return nil
}
