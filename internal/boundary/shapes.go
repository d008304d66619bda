// Package boundary loads state outlines from a TIGER/Line cartographic
// boundary shapefile and projects them for the choropleth figures.
package boundary

import (
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/stateid"
)

// Attribute names in Census cartographic boundary files.
const (
	CodeField = "STATEFP"
	NameField = "NAME"
)

// Shape is one projected state outline.
type Shape struct {
	Code     int
	Name     string
	Geometry *geom.MultiPolygon
}

// Set holds projected state outlines ordered by code.
type Set struct {
	shapes []Shape
	bounds *geom.Bounds
}

// Record is a raw shapefile record before projection.
type Record struct {
	Code  int
	Name  string
	Shape shp.Shape
}

// Load reads the polygons of a state shapefile. Records whose code is
// rejected by keep (for example territories missing from the identifier
// table) are skipped; a nil keep accepts everything.
func Load(shpPath string, proj Projection, keep func(code int) bool) (*Set, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	codeIdx, nameIdx := -1, -1
	for i, f := range fields {
		switch strings.ToUpper(strings.TrimRight(f.String(), "\x00")) {
		case CodeField:
			codeIdx = i
		case NameField:
			nameIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("boundary: %s has no %s attribute", shpPath, CodeField)
	}

	var records []Record
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		code, err := stateid.ParseCode(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: %s value %q", CodeField, raw)
		}
		if keep != nil && !keep(code) {
			skipped++
			continue
		}
		var name string
		if nameIdx >= 0 {
			name = strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		}
		records = append(records, Record{Code: code, Name: name, Shape: shape})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return FromRecords(records, proj)
}

// FromRecords projects raw records into a Set. Records without polygon
// geometry are skipped; two records for one code are merged.
func FromRecords(records []Record, proj Projection) (*Set, error) {
	if proj == nil {
		proj = AlbersUSA()
	}

	byCode := make(map[int]*Shape)
	for _, r := range records {
		poly, ok := r.Shape.(*shp.Polygon)
		if !ok || poly == nil {
			zap.L().Debug("boundary: skipping non-polygon record", zap.Int("code", r.Code))
			continue
		}
		mp := toMultiPolygon(poly, func(lon, lat float64) (float64, float64) {
			return proj(r.Code, lon, lat)
		})
		if mp == nil {
			continue
		}

		s, ok := byCode[r.Code]
		if !ok {
			byCode[r.Code] = &Shape{Code: r.Code, Name: r.Name, Geometry: mp}
			continue
		}
		for i := 0; i < mp.NumPolygons(); i++ {
			if err := s.Geometry.Push(mp.Polygon(i)); err != nil {
				return nil, eris.Wrapf(err, "boundary: merge polygons for state %d", r.Code)
			}
		}
	}

	if len(byCode) == 0 {
		return nil, eris.New("boundary: no polygon records")
	}

	set := &Set{bounds: geom.NewBounds(geom.XY)}
	for _, s := range byCode {
		set.shapes = append(set.shapes, *s)
		set.bounds.Extend(s.Geometry)
	}
	sort.Slice(set.shapes, func(i, j int) bool { return set.shapes[i].Code < set.shapes[j].Code })
	return set, nil
}

// Shapes returns the outlines ordered by code.
func (s *Set) Shapes() []Shape { return s.shapes }

// Len returns the number of outlines.
func (s *Set) Len() int { return len(s.shapes) }

// Get returns the outline of a state.
func (s *Set) Get(code int) (Shape, bool) {
	i := sort.Search(len(s.shapes), func(i int) bool { return s.shapes[i].Code >= code })
	if i < len(s.shapes) && s.shapes[i].Code == code {
		return s.shapes[i], true
	}
	return Shape{}, false
}

// Bounds returns the projected extent of every outline.
func (s *Set) Bounds() (minX, minY, maxX, maxY float64) {
	return s.bounds.Min(0), s.bounds.Min(1), s.bounds.Max(0), s.bounds.Max(1)
}

// toMultiPolygon converts a shapefile Polygon to a projected
// geom.MultiPolygon with one polygon per part.
func toMultiPolygon(p *shp.Polygon, project func(lon, lat float64) (float64, float64)) *geom.MultiPolygon {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 3 {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			x, y := project(p.Points[j].X, p.Points[j].Y)
			flat = append(flat, x, y)
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
