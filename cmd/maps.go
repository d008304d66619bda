package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/figure"
)

var (
	mapsModels []string
	mapsOutput string
	mapsTitle  string
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Draw one choropleth per wide-table column",
	Long:  "Pivots the observations for the configured year and draws one map per requested column, each with its own colour scale, stacked vertically.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return buildOne(ctx, figure.Figure{
			Name:   "maps",
			Kind:   figure.KindMaps,
			Models: mapsModels,
			Output: mapsOutput,
			Title:  mapsTitle,
		})
	},
}

func init() {
	mapsCmd.Flags().StringSliceVar(&mapsModels, "models", []string{"Aggregate"}, "wide-table columns to map, e.g. Aggregate,Medicare_per_total")
	mapsCmd.Flags().StringVar(&mapsOutput, "output", "maps.png", "output file (.png, .svg, .pdf, ...)")
	mapsCmd.Flags().StringVar(&mapsTitle, "title", "", "figure title")
	rootCmd.AddCommand(mapsCmd)
}
