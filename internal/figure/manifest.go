package figure

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Kind names a chart type.
type Kind string

const (
	KindMaps       Kind = "maps"        // one choropleth per wide-table column
	KindFacet      Kind = "facet"       // choropleth grid over long rows
	KindStackedBar Kind = "stacked_bar" // normalised category shares per state
)

// Figure describes one chart to produce.
type Figure struct {
	Name    string   `yaml:"name"`
	Kind    Kind     `yaml:"kind"`
	Models  []string `yaml:"models"`
	Output  string   `yaml:"output"`
	Year    int      `yaml:"year,omitempty"`    // 0 = configured year; all years for stacked bars
	Regions bool     `yaml:"regions,omitempty"` // stacked bars only: add regional and national bars
	Title   string   `yaml:"title,omitempty"`
	Columns int      `yaml:"columns,omitempty"` // facet only
}

// Manifest is the list of figures a render run produces.
type Manifest struct {
	Figures []Figure `yaml:"figures"`
}

// LoadManifest reads a manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "figure: read manifest %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "figure: parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every figure for a name, known kind, models and output.
func (m *Manifest) Validate() error {
	if len(m.Figures) == 0 {
		return eris.New("figure: manifest lists no figures")
	}
	names := make(map[string]bool, len(m.Figures))
	for i, f := range m.Figures {
		if f.Name == "" {
			return eris.Errorf("figure: manifest entry %d has no name", i)
		}
		if names[f.Name] {
			return eris.Errorf("figure: duplicate figure name %q", f.Name)
		}
		names[f.Name] = true

		switch f.Kind {
		case KindMaps, KindFacet, KindStackedBar:
		default:
			return eris.Errorf("figure: %s: unknown kind %q", f.Name, f.Kind)
		}
		if len(f.Models) == 0 {
			return eris.Errorf("figure: %s: no models", f.Name)
		}
		if _, err := FormatOf(f.Output); err != nil {
			return eris.Wrapf(err, "figure: %s", f.Name)
		}
	}
	return nil
}

// DefaultManifest reproduces the figures of exhibit 2.
func DefaultManifest() *Manifest {
	payers := []string{"Medicare", "Medicaid", "Private", "OOP"}
	return &Manifest{Figures: []Figure{
		{
			Name:   "aggregate_map",
			Kind:   KindMaps,
			Models: []string{"Aggregate"},
			Output: "aggregate_map.png",
		},
		{
			Name:   "all_maps",
			Kind:   KindMaps,
			Models: []string{"Medicare_per_total", "Medicaid_per_total", "Private_per_total", "OOP_per_total"},
			Output: "all_maps.png",
		},
		{
			Name:    "all_maps_faceted",
			Kind:    KindFacet,
			Models:  payers,
			Output:  "all_maps_faceted.png",
			Columns: 2,
		},
		{
			Name: "stacked_bar",
			Kind: KindStackedBar,
			Models: []string{
				"Dental", "Home health", "Hospital", "Skilled nursing", "Other professional", "Other",
				"Pharmaceuticals", "Physician/clinical services", "Medicaid", "Medicare", "OOP", "Private",
			},
			Output: "stacked_bar.png",
		},
		{
			Name:   "stacked_bar_selected",
			Kind:   KindStackedBar,
			Models: payers,
			Output: "stacked_bar_selected.png",
		},
	}}
}
