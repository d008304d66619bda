package figure

import (
	"fmt"
	"image/color"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/statespend/internal/boundary"
	"github.com/sells-group/statespend/internal/wrangle"
)

var (
	noDataColor  = color.Gray{Y: 0xdd}
	outlineStyle = draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}
)

// stateLayer fills each state outline with the colour of its value.
type stateLayer struct {
	shapes *boundary.Set
	values map[int]float64
	cmap   palette.ColorMap
	aspect float64 // width/height of the panel's data area
}

// Plot implements plot.Plotter.
func (l *stateLayer) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, s := range l.shapes.Shapes() {
		var fill color.Color = noDataColor
		if v, ok := l.values[s.Code]; ok {
			if col, err := l.cmap.At(v); err == nil {
				fill = col
			}
		}
		for i := 0; i < s.Geometry.NumPolygons(); i++ {
			flat := s.Geometry.Polygon(i).LinearRing(0).FlatCoords()
			pts := make([]vg.Point, 0, len(flat)/2)
			for j := 0; j+1 < len(flat); j += 2 {
				pts = append(pts, vg.Point{X: trX(flat[j]), Y: trY(flat[j+1])})
			}
			c.FillPolygon(fill, pts)
			c.StrokeLines(outlineStyle, pts)
		}
	}
}

// DataRange implements plot.DataRanger. The range is widened on one axis so
// the outlines keep their shape in a panel of the given aspect ratio.
func (l *stateLayer) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin, xmax, ymax = l.shapes.Bounds()
	if l.aspect <= 0 || xmax <= xmin || ymax <= ymin {
		return xmin, xmax, ymin, ymax
	}
	w, h := xmax-xmin, ymax-ymin
	if w/h < l.aspect {
		pad := (h*l.aspect - w) / 2
		return xmin - pad, xmax + pad, ymin, ymax
	}
	pad := (w/l.aspect - h) / 2
	return xmin, xmax, ymin - pad, ymax + pad
}

// swatch is a legend thumbnail filled with one colour.
type swatch struct{ color color.Color }

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

func newColorMap(lo, hi float64) palette.ColorMap {
	if hi <= lo {
		hi = lo + 1
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm
}

func valueRange(values map[int]float64) (lo, hi float64) {
	first := true
	for _, v := range values {
		if first || v < lo {
			lo = v
		}
		if first || v > hi {
			hi = v
		}
		first = false
	}
	return lo, hi
}

func mapPanel(title string, shapes *boundary.Set, values map[int]float64, cmap palette.ColorMap, opts Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(&stateLayer{
		shapes: shapes,
		values: values,
		cmap:   cmap,
		aspect: float64(opts.PanelWidth / opts.PanelHeight),
	})

	p.Legend.Top = true
	p.Legend.ThumbnailWidth = vg.Points(10)
	lo, hi := cmap.Min(), cmap.Max()
	for k := opts.LegendSteps - 1; k >= 0; k-- {
		v := lo + (hi-lo)*float64(k)/float64(opts.LegendSteps-1)
		col, err := cmap.At(v)
		if err != nil {
			continue
		}
		p.Legend.Add(fmt.Sprintf("%.3g", v), swatch{color: col})
	}
	return p
}

// Maps draws one choropleth per column of table, stacked vertically, each
// with its own colour scale.
func Maps(table *wrangle.WideTable, columns []string, shapes *boundary.Set, path string, opts Options) error {
	if len(columns) == 0 {
		return eris.New("figure: maps need at least one column")
	}
	if shapes == nil {
		return eris.New("figure: maps need state boundaries")
	}
	opts = opts.withDefaults()

	panels := make([]*plot.Plot, 0, len(columns))
	for _, col := range columns {
		values, err := table.ByID(col)
		if err != nil {
			return eris.Wrap(err, "figure: maps")
		}
		panels = append(panels, mapPanel(col, shapes, values, newColorMap(valueRange(values)), opts))
	}

	tiles := draw.Tiles{Rows: len(panels), Cols: 1, PadY: vg.Points(6)}
	err := save(path, opts.PanelWidth, opts.PanelHeight*vg.Length(len(panels)), func(dc draw.Canvas) error {
		for i, p := range panels {
			p.Draw(tiles.At(dc, 0, i))
		}
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("figure: wrote maps", zap.String("path", path), zap.Strings("columns", columns))
	return nil
}

// FacetMaps draws one choropleth per model of frame in a grid of
// opts.Columns columns sharing one colour scale.
func FacetMaps(frame *wrangle.FacetFrame, shapes *boundary.Set, path string, opts Options) error {
	if shapes == nil {
		return eris.New("figure: facet maps need state boundaries")
	}
	if len(frame.Models) == 0 {
		return eris.New("figure: facet maps need at least one model")
	}
	opts = opts.withDefaults()

	cols := opts.Columns
	if cols > len(frame.Models) {
		cols = len(frame.Models)
	}
	rows := (len(frame.Models) + cols - 1) / cols

	lo, hi := frame.Range()
	panels := make([]*plot.Plot, 0, len(frame.Models))
	for _, m := range frame.Models {
		panels = append(panels, mapPanel(m, shapes, frame.Panel(m), newColorMap(lo, hi), opts))
	}

	tiles := draw.Tiles{Rows: rows, Cols: cols, PadX: vg.Points(6), PadY: vg.Points(6)}
	w := opts.PanelWidth * vg.Length(cols)
	h := opts.PanelHeight * vg.Length(rows)
	err := save(path, w, h, func(dc draw.Canvas) error {
		for i, p := range panels {
			p.Draw(tiles.At(dc, i%cols, i/cols))
		}
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("figure: wrote facet maps", zap.String("path", path), zap.Strings("models", frame.Models))
	return nil
}
