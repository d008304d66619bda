package boundary

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
}

func polygon(parts ...[]shp.Point) *shp.Polygon {
	p := &shp.Polygon{NumParts: int32(len(parts))}
	for _, part := range parts {
		p.Parts = append(p.Parts, int32(len(p.Points)))
		p.Points = append(p.Points, part...)
	}
	p.NumPoints = int32(len(p.Points))
	return p
}

func TestFromRecords(t *testing.T) {
	records := []Record{
		{Code: 39, Name: "Ohio", Shape: polygon(square(-84, 39, 4))},
		{Code: 6, Name: "California", Shape: polygon(square(-124, 33, 5), square(-120, 33, 1))},
		{Code: 99, Name: "Point", Shape: &shp.Point{X: 1, Y: 2}},
	}

	set, err := FromRecords(records, Equirectangular())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 6, set.Shapes()[0].Code, "ordered by code")

	ca, ok := set.Get(6)
	require.True(t, ok)
	assert.Equal(t, "California", ca.Name)
	assert.Equal(t, 2, ca.Geometry.NumPolygons())

	_, ok = set.Get(99)
	assert.False(t, ok)

	minX, minY, maxX, maxY := set.Bounds()
	assert.InDelta(t, -124.0, minX, 1e-9)
	assert.InDelta(t, 33.0, minY, 1e-9)
	assert.InDelta(t, -80.0, maxX, 1e-9)
	assert.InDelta(t, 43.0, maxY, 1e-9)
}

func TestFromRecords_MergesDuplicateCodes(t *testing.T) {
	records := []Record{
		{Code: 15, Name: "Hawaii", Shape: polygon(square(-156, 19, 1))},
		{Code: 15, Name: "Hawaii", Shape: polygon(square(-158, 21, 0.5))},
	}

	set, err := FromRecords(records, nil)
	require.NoError(t, err)
	hi, ok := set.Get(15)
	require.True(t, ok)
	assert.Equal(t, 2, hi.Geometry.NumPolygons())
}

func TestFromRecords_SkipsDegenerateParts(t *testing.T) {
	records := []Record{
		{Code: 1, Shape: polygon([]shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})},
	}
	_, err := FromRecords(records, Equirectangular())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no polygon records")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "states.shp"), AlbersUSA(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open shapefile")
}

func TestAlbersUSA(t *testing.T) {
	proj := AlbersUSA()

	x, y := proj(39, -96, 37.5)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, 0.0, y, 1e-12)

	// West is left, north is up.
	wx, _ := proj(6, -120, 37.5)
	_, ny := proj(27, -96, 48)
	assert.Less(t, wx, 0.0)
	assert.Greater(t, ny, 0.0)

	// Insets land below the lower 48's southern edge.
	_, floridaY := proj(12, -81, 25)
	_, akY := proj(2, -150, 61)
	_, hiY := proj(15, -157, 21)
	assert.Less(t, akY, floridaY+0.1)
	assert.Less(t, hiY, floridaY+0.1)
	akX, _ := proj(2, -150, 61)
	assert.Less(t, akX, 0.0)
}

func TestEquirectangular(t *testing.T) {
	x, y := Equirectangular()(1, -80, 25)
	assert.Equal(t, -80.0, x)
	assert.Equal(t, 25.0, y)
}
