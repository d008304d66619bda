package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/statespend/internal/model"
	"github.com/sells-group/statespend/internal/stateid"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"maps", "facet", "bars", "regions", "export", "describe", "render"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "statespend", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	for _, name := range []string{"data", "state-ids", "boundaries", "year", "field"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
		def  string
	}{
		{"maps", "models", "[Aggregate]"},
		{"maps", "output", "maps.png"},
		{"facet", "columns", "2"},
		{"bars", "regions", "false"},
		{"bars", "output", "stacked_bar.png"},
		{"export", "output", "wide.csv"},
		{"describe", "json", "false"},
		{"render", "concurrency", "1"},
		{"render", "manifest", ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			require.NoError(t, err)
			f := c.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

// workspace writes a config and observations for every built-in state into
// a temp dir and switches to it.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	var b strings.Builder
	b.WriteString("state_name,year_id,model,mean,pc,population\n")
	for i, s := range stateid.Builtin().Names() {
		pop := 1_000_000 + 1000*i
		fmt.Fprintf(&b, "%s,2019,Aggregate,%d,%d,%d\n", s, 1000+i, 5000+i, pop)
		for k, p := range []string{"Medicare", "Medicaid", "Private", "OOP"} {
			fmt.Fprintf(&b, "%s,2019,%s,%d,%d,%d\n", s, p, (k+1)*50+i, (k+1)*200+i, pop)
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "obs.csv"), []byte(b.String()), 0o644))

	conf := `
data:
  observations: obs.csv
  state_ids: ""
  boundaries: ""
log:
  level: error
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(conf), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRegionsCommand(t *testing.T) {
	workspace(t)

	out, err := execute(t, "regions")
	require.NoError(t, err)

	var rows []model.Observation
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	labels := map[string]bool{}
	for _, r := range rows {
		labels[r.State] = true
	}
	for _, l := range []string{"NORTHEAST", "MIDWEST", "SOUTH", "WEST", "UNITED STATES"} {
		assert.True(t, labels[l], l)
	}
	assert.Len(t, rows, 5*5)
}

func TestExportCommand(t *testing.T) {
	dir := workspace(t)

	_, err := execute(t, "export", "--output", "wide.xlsx")
	require.NoError(t, err)

	f, err := xlsx.OpenFile(filepath.Join(dir, "wide.xlsx"))
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Len(t, f.Sheets[0].Rows, 52)
}

func TestDescribeCommand(t *testing.T) {
	workspace(t)

	out, err := execute(t, "describe", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"category": "Aggregate"`)
	assert.Contains(t, out, `"count": 51`)
}

func TestRenderCommand_BarsOnlyManifest(t *testing.T) {
	dir := workspace(t)
	manifest := `
figures:
  - name: shares
    kind: stacked_bar
    models: [Medicare, Medicaid, Private, OOP]
    output: shares.png
  - name: regional_shares
    kind: stacked_bar
    models: [Medicare, OOP]
    output: regional.svg
    regions: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "figures.yaml"), []byte(manifest), 0o644))

	_, err := execute(t, "render", "--manifest", "figures.yaml", "--out-dir", "figs", "--concurrency", "2")
	require.NoError(t, err)

	for _, name := range []string{"shares.png", "regional.svg"} {
		info, err := os.Stat(filepath.Join(dir, "figs", name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestMapsCommand_NeedsBoundaries(t *testing.T) {
	workspace(t)

	_, err := execute(t, "maps", "--output", "maps.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boundaries")
}
