package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/figure"
)

var (
	facetModels  []string
	facetOutput  string
	facetColumns int
)

var facetCmd = &cobra.Command{
	Use:   "facet",
	Short: "Draw a grid of choropleths sharing one colour scale",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return buildOne(ctx, figure.Figure{
			Name:    "facet",
			Kind:    figure.KindFacet,
			Models:  facetModels,
			Output:  facetOutput,
			Columns: facetColumns,
		})
	},
}

func init() {
	facetCmd.Flags().StringSliceVar(&facetModels, "models", []string{"Medicare", "Medicaid", "Private", "OOP"}, "models to draw, one panel each")
	facetCmd.Flags().StringVar(&facetOutput, "output", "facet.png", "output file (.png, .svg, .pdf, ...)")
	facetCmd.Flags().IntVar(&facetColumns, "columns", 2, "panels per row")
	rootCmd.AddCommand(facetCmd)
}
