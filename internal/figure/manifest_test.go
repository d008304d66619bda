package figure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "figures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
figures:
  - name: shares
    kind: stacked_bar
    models: [Medicare, Medicaid]
    output: shares.svg
    regions: true
    year: 2019
  - name: payers
    kind: facet
    models: [Medicare, OOP]
    output: payers.png
    columns: 1
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Figures, 2)

	f := m.Figures[0]
	assert.Equal(t, "shares", f.Name)
	assert.Equal(t, KindStackedBar, f.Kind)
	assert.Equal(t, []string{"Medicare", "Medicaid"}, f.Models)
	assert.True(t, f.Regions)
	assert.Equal(t, 2019, f.Year)
	assert.Equal(t, 1, m.Figures[1].Columns)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "figures: []\n"},
		{"no name", "figures:\n  - kind: maps\n    models: [A]\n    output: a.png\n"},
		{"bad kind", "figures:\n  - name: a\n    kind: pie\n    models: [A]\n    output: a.png\n"},
		{"no models", "figures:\n  - name: a\n    kind: maps\n    output: a.png\n"},
		{"bad output", "figures:\n  - name: a\n    kind: maps\n    models: [A]\n    output: a.html\n"},
		{"duplicate", "figures:\n  - {name: a, kind: maps, models: [A], output: a.png}\n  - {name: a, kind: maps, models: [B], output: b.png}\n"},
		{"not yaml", "figures: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	require.NoError(t, m.Validate())
	assert.Len(t, m.Figures, 5)
	assert.True(t, NeedsShapes(m))

	bars := &Manifest{Figures: []Figure{m.Figures[3]}}
	assert.False(t, NeedsShapes(bars))
}
