package figure

import (
	"image/color"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/statespend/internal/aggregate"
)

const (
	barRowHeight = 12 // points per label
	legendRoom   = 0.35
)

// seriesColors returns n distinguishable colours: the plotutil defaults when
// they suffice, otherwise evenly spaced hues.
func seriesColors(n int) []color.Color {
	if n <= len(plotutil.DefaultColors) {
		return plotutil.DefaultColors[:n]
	}
	return palette.Rainbow(n, palette.Red, palette.Magenta, 0.65, 0.9, 1).Colors()
}

// StackedBar draws one horizontal bar per label of stack, split into one
// segment per category, each bar normalised to a total of 1.
func StackedBar(stack *aggregate.Stack, path string, opts Options) error {
	if len(stack.Labels) == 0 || len(stack.Categories) == 0 {
		return eris.New("figure: stacked bar needs labels and categories")
	}
	opts = opts.withDefaults()

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "share of total"
	p.X.Min = 0
	p.X.Max = 1 + legendRoom
	p.Legend.Top = true

	colors := seriesColors(len(stack.Categories))
	var below *plotter.BarChart
	for j, cat := range stack.Categories {
		bars, err := plotter.NewBarChart(plotter.Values(stack.Column(j)), vg.Points(barRowHeight*0.8))
		if err != nil {
			return eris.Wrapf(err, "figure: stacked bar series %q", cat)
		}
		bars.Horizontal = true
		bars.Color = colors[j]
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(cat, bars)
		below = bars
	}
	p.NominalY(stack.Labels...)

	h := vg.Points(barRowHeight)*vg.Length(len(stack.Labels)) + vg.Inch
	if h < opts.PanelHeight {
		h = opts.PanelHeight
	}
	err := save(path, opts.PanelWidth, h, func(dc draw.Canvas) error {
		p.Draw(dc)
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("figure: wrote stacked bar",
		zap.String("path", path),
		zap.Int("labels", len(stack.Labels)),
		zap.Strings("categories", stack.Categories),
	)
	return nil
}
